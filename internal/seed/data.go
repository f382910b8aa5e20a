package seed

import "time"

// League is one competition with its rosters per season start year.
type League struct {
	Code    string
	Rosters map[int][]string
}

// Roster returns the teams for the season starting in year: the latest
// roster at or before year, else the earliest one known.
func (l League) Roster(year int) []string {
	best, earliest := -1, -1
	for y := range l.Rosters {
		if y <= year && y > best {
			best = y
		}
		if earliest < 0 || y < earliest {
			earliest = y
		}
	}
	if best < 0 {
		best = earliest
	}
	return l.Rosters[best]
}

// seasonStarts holds known opening days; other years open on 15 August.
var seasonStarts = map[int]time.Time{ //nolint:gochecknoglobals // calendar data
	2023: time.Date(2023, time.August, 11, 0, 0, 0, 0, time.UTC),
	2024: time.Date(2024, time.August, 16, 0, 0, 0, 0, time.UTC),
}

// SeasonStart is the first possible match day of the season starting in year.
func SeasonStart(year int) time.Time {
	if t, ok := seasonStarts[year]; ok {
		return t
	}
	return time.Date(year, time.August, 15, 0, 0, 0, 0, time.UTC)
}

// DefaultLeagues returns the five supported leagues with their 2023 and 2024
// rosters.
func DefaultLeagues() []League {
	return []League{
		{Code: "PL", Rosters: map[int][]string{
			2023: {
				"Manchester City FC", "Arsenal FC", "Liverpool FC", "Aston Villa FC",
				"Tottenham Hotspur FC", "Chelsea FC", "Newcastle United FC", "Manchester United FC",
				"West Ham United FC", "Crystal Palace FC", "Brighton & Hove Albion FC", "AFC Bournemouth",
				"Fulham FC", "Wolverhampton Wanderers FC", "Everton FC", "Brentford FC",
				"Nottingham Forest FC", "Luton Town FC", "Burnley FC", "Sheffield United FC",
			},
			2024: {
				"Liverpool FC", "Arsenal FC", "Manchester City FC", "Chelsea FC",
				"Nottingham Forest FC", "Newcastle United FC", "Aston Villa FC", "AFC Bournemouth",
				"Brighton & Hove Albion FC", "Tottenham Hotspur FC", "Manchester United FC", "Fulham FC",
				"Brentford FC", "West Ham United FC", "Crystal Palace FC", "Wolverhampton Wanderers FC",
				"Everton FC", "Ipswich Town FC", "Leicester City FC", "Southampton FC",
			},
		}},
		{Code: "PD", Rosters: map[int][]string{
			2023: {
				"Real Madrid CF", "FC Barcelona", "Girona FC", "Club Atlético de Madrid",
				"Athletic Club", "Real Betis Balompié", "Real Sociedad de Fútbol", "Villarreal CF",
				"Valencia CF", "Getafe CF", "Deportivo Alavés", "CA Osasuna",
				"Sevilla FC", "RCD Mallorca", "UD Las Palmas", "RC Celta de Vigo",
				"Rayo Vallecano de Madrid", "Cádiz CF", "Granada CF", "UD Almería",
			},
			2024: {
				"FC Barcelona", "Real Madrid CF", "Club Atlético de Madrid", "Athletic Club",
				"Villarreal CF", "RCD Mallorca", "Real Betis Balompié", "Real Sociedad de Fútbol",
				"RC Celta de Vigo", "CA Osasuna", "Girona FC", "Rayo Vallecano de Madrid",
				"Sevilla FC", "Getafe CF", "RCD Espanyol de Barcelona", "UD Las Palmas",
				"Deportivo Alavés", "Real Valladolid CF", "CD Leganés", "Valencia CF",
			},
		}},
		{Code: "BL1", Rosters: map[int][]string{
			2023: {
				"Bayer 04 Leverkusen", "VfB Stuttgart", "FC Bayern München", "RB Leipzig",
				"Borussia Dortmund", "Eintracht Frankfurt", "SC Freiburg", "TSG 1899 Hoffenheim",
				"VfL Wolfsburg", "1. FC Union Berlin", "SV Werder Bremen", "FC Augsburg",
				"Borussia Mönchengladbach", "1. FSV Mainz 05", "1. FC Heidenheim 1846", "VfL Bochum 1848",
				"1. FC Köln", "SV Darmstadt 98",
			},
			2024: {
				"FC Bayern München", "Bayer 04 Leverkusen", "Eintracht Frankfurt", "RB Leipzig",
				"Borussia Dortmund", "SC Freiburg", "1. FSV Mainz 05", "VfB Stuttgart",
				"SV Werder Bremen", "VfL Wolfsburg", "1. FC Union Berlin", "FC Augsburg",
				"Borussia Mönchengladbach", "TSG 1899 Hoffenheim", "FC St. Pauli 1910", "1. FC Heidenheim 1846",
				"VfL Bochum 1848", "Holstein Kiel",
			},
		}},
		{Code: "SA", Rosters: map[int][]string{
			2023: {
				"FC Internazionale Milano", "AC Milan", "Juventus FC", "Atalanta BC",
				"Bologna FC 1909", "AS Roma", "SS Lazio", "ACF Fiorentina",
				"SSC Napoli", "Torino FC", "AC Monza", "Genoa CFC",
				"Cagliari Calcio", "Hellas Verona FC", "Udinese Calcio", "Empoli FC",
				"US Lecce", "Frosinone Calcio", "US Salernitana 1919", "US Sassuolo Calcio",
			},
			2024: {
				"SSC Napoli", "FC Internazionale Milano", "Atalanta BC", "SS Lazio",
				"Juventus FC", "ACF Fiorentina", "Bologna FC 1909", "AC Milan",
				"AS Roma", "Udinese Calcio", "Torino FC", "Genoa CFC",
				"Empoli FC", "Cagliari Calcio", "Parma Calcio 1913", "Como 1907",
				"Hellas Verona FC", "Venezia FC", "US Lecce", "AC Monza",
			},
		}},
		{Code: "FL1", Rosters: map[int][]string{
			2023: {
				"Paris Saint-Germain FC", "AS Monaco FC", "Stade Brestois 29", "LOSC Lille",
				"OGC Nice", "Olympique Lyonnais", "RC Lens", "Olympique de Marseille",
				"Stade Rennais FC 1901", "Toulouse FC", "RC Strasbourg Alsace", "FC Nantes",
				"Montpellier HSC", "Stade de Reims", "FC Metz", "FC Lorient",
				"Le Havre AC", "Clermont Foot 63",
			},
			2024: {
				"Paris Saint-Germain FC", "Olympique de Marseille", "AS Monaco FC", "LOSC Lille",
				"Olympique Lyonnais", "OGC Nice", "RC Lens", "Stade Brestois 29",
				"RC Strasbourg Alsace", "Stade Rennais FC 1901", "Toulouse FC", "Stade de Reims",
				"FC Nantes", "Montpellier HSC", "AJ Auxerre", "Angers SCO",
				"AS Saint-Étienne", "Le Havre AC",
			},
		}},
	}
}

// DefaultStrengths returns hidden team strengths on a 0 to 1 scale.
func DefaultStrengths() map[string]float64 {
	return map[string]float64{
		"Manchester City FC": 0.92, "Arsenal FC": 0.90, "Liverpool FC": 0.91,
		"Chelsea FC": 0.78, "Tottenham Hotspur FC": 0.76, "Newcastle United FC": 0.77,
		"Manchester United FC": 0.73, "Aston Villa FC": 0.79, "West Ham United FC": 0.68,
		"Crystal Palace FC": 0.64, "Brighton & Hove Albion FC": 0.72, "AFC Bournemouth": 0.65,
		"Fulham FC": 0.63, "Wolverhampton Wanderers FC": 0.60, "Everton FC": 0.55,
		"Brentford FC": 0.66, "Nottingham Forest FC": 0.62, "Ipswich Town FC": 0.45,
		"Leicester City FC": 0.50, "Southampton FC": 0.42, "Luton Town FC": 0.40,
		"Burnley FC": 0.43, "Sheffield United FC": 0.38,

		"Real Madrid CF": 0.93, "FC Barcelona": 0.91, "Club Atlético de Madrid": 0.84,
		"Athletic Club": 0.75, "Real Sociedad de Fútbol": 0.72, "Villarreal CF": 0.73,
		"Real Betis Balompié": 0.71, "Girona FC": 0.70, "Sevilla FC": 0.66,
		"Valencia CF": 0.58, "Getafe CF": 0.60, "CA Osasuna": 0.61,
		"RC Celta de Vigo": 0.59, "RCD Mallorca": 0.62, "UD Las Palmas": 0.52,
		"Rayo Vallecano de Madrid": 0.58, "Deportivo Alavés": 0.50, "RCD Espanyol de Barcelona": 0.54,
		"Real Valladolid CF": 0.45, "CD Leganés": 0.47, "Cádiz CF": 0.42,
		"Granada CF": 0.40, "UD Almería": 0.38,

		"FC Bayern München": 0.91, "Bayer 04 Leverkusen": 0.88, "Borussia Dortmund": 0.83,
		"RB Leipzig": 0.82, "VfB Stuttgart": 0.77, "Eintracht Frankfurt": 0.74,
		"SC Freiburg": 0.69, "VfL Wolfsburg": 0.65, "TSG 1899 Hoffenheim": 0.62,
		"Borussia Mönchengladbach": 0.63, "1. FSV Mainz 05": 0.61, "SV Werder Bremen": 0.60,
		"FC Augsburg": 0.56, "1. FC Union Berlin": 0.59, "1. FC Heidenheim 1846": 0.50,
		"VfL Bochum 1848": 0.42, "1. FC Köln": 0.48, "SV Darmstadt 98": 0.36,
		"FC St. Pauli 1910": 0.52, "Holstein Kiel": 0.40,

		"SSC Napoli": 0.85, "FC Internazionale Milano": 0.89, "AC Milan": 0.80,
		"Juventus FC": 0.82, "Atalanta BC": 0.83, "AS Roma": 0.74,
		"SS Lazio": 0.75, "ACF Fiorentina": 0.71, "Bologna FC 1909": 0.70,
		"Torino FC": 0.62, "AC Monza": 0.54, "Genoa CFC": 0.58,
		"Cagliari Calcio": 0.55, "Hellas Verona FC": 0.50, "Udinese Calcio": 0.58,
		"Empoli FC": 0.52, "US Lecce": 0.48, "Frosinone Calcio": 0.42,
		"US Salernitana 1919": 0.36, "US Sassuolo Calcio": 0.44,
		"Parma Calcio 1913": 0.53, "Como 1907": 0.49, "Venezia FC": 0.43,

		"Paris Saint-Germain FC": 0.90, "Olympique de Marseille": 0.76,
		"AS Monaco FC": 0.78, "LOSC Lille": 0.74, "Olympique Lyonnais": 0.73,
		"OGC Nice": 0.70, "RC Lens": 0.68, "Stade Brestois 29": 0.67,
		"Stade Rennais FC 1901": 0.65, "Toulouse FC": 0.60, "RC Strasbourg Alsace": 0.58,
		"FC Nantes": 0.55, "Montpellier HSC": 0.52, "Stade de Reims": 0.56,
		"AJ Auxerre": 0.48, "Angers SCO": 0.46, "AS Saint-Étienne": 0.50,
		"Le Havre AC": 0.44, "FC Metz": 0.47, "FC Lorient": 0.45,
		"Clermont Foot 63": 0.42,
	}
}
