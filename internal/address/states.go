package address

// Canonical state code → name tables for the countries the provider returns
// free-form state values for. Matching is case-insensitive against both code
// and name.
var countryStates = map[string]map[string]string{
	"US": {
		"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
		"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
		"DC": "District Of Columbia", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
		"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
		"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
		"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
		"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska",
		"NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
		"NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
		"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island",
		"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
		"UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
		"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
	},
	"DE": {
		"BW": "Baden-Württemberg", "BY": "Bayern", "BE": "Berlin", "BB": "Brandenburg",
		"HB": "Bremen", "HH": "Hamburg", "HE": "Hessen", "MV": "Mecklenburg-Vorpommern",
		"NI": "Niedersachsen", "NW": "Nordrhein-Westfalen", "RP": "Rheinland-Pfalz",
		"SL": "Saarland", "SN": "Sachsen", "ST": "Sachsen-Anhalt",
		"SH": "Schleswig-Holstein", "TH": "Thüringen",
	},
	"AT": {
		"B": "Burgenland", "K": "Kärnten", "NO": "Niederösterreich", "OO": "Oberösterreich",
		"S": "Salzburg", "ST": "Steiermark", "T": "Tirol", "V": "Vorarlberg", "W": "Wien",
	},
	"JP": {
		"JP01": "Hokkaido", "JP02": "Aomori", "JP03": "Iwate", "JP04": "Miyagi",
		"JP05": "Akita", "JP06": "Yamagata", "JP07": "Fukushima", "JP08": "Ibaraki",
		"JP09": "Tochigi", "JP10": "Gunma", "JP11": "Saitama", "JP12": "Chiba",
		"JP13": "Tokyo", "JP14": "Kanagawa", "JP15": "Niigata", "JP16": "Toyama",
		"JP17": "Ishikawa", "JP18": "Fukui", "JP19": "Yamanashi", "JP20": "Nagano",
		"JP21": "Gifu", "JP22": "Shizuoka", "JP23": "Aichi", "JP24": "Mie",
		"JP25": "Shiga", "JP26": "Kyoto", "JP27": "Osaka", "JP28": "Hyogo",
		"JP29": "Nara", "JP30": "Wakayama", "JP31": "Tottori", "JP32": "Shimane",
		"JP33": "Okayama", "JP34": "Hiroshima", "JP35": "Yamaguchi", "JP36": "Tokushima",
		"JP37": "Kagawa", "JP38": "Ehime", "JP39": "Kochi", "JP40": "Fukuoka",
		"JP41": "Saga", "JP42": "Nagasaki", "JP43": "Kumamoto", "JP44": "Oita",
		"JP45": "Miyazaki", "JP46": "Kagoshima", "JP47": "Okinawa",
	},
}
