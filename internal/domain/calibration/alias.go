package calibration

// AliasTable maps local team names to reference names. It is loaded as data.
type AliasTable map[string]string

// Normalize returns the reference name for local, or local itself.
func (a AliasTable) Normalize(local string) string {
	if ref, ok := a[local]; ok && ref != "" {
		return ref
	}
	return local
}
