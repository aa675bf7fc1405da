// Package regions resolves the viewer's country code. The table below is
// the set of ISO 3166-1 alpha-2 codes the TMDB provider catalog serves;
// anything outside it resolves to the default region rather than erroring.
package regions

import "sort"

// Default is used whenever no valid preference is stored.
const Default = "US"

var regionNames = map[string]string{
	"AD": "Andorra", "AE": "United Arab Emirates", "AF": "Afghanistan",
	"AG": "Antigua and Barbuda", "AL": "Albania", "AM": "Armenia",
	"AO": "Angola", "AR": "Argentina", "AT": "Austria", "AU": "Australia",
	"AZ": "Azerbaijan", "BA": "Bosnia and Herzegovina", "BB": "Barbados",
	"BD": "Bangladesh", "BE": "Belgium", "BF": "Burkina Faso",
	"BG": "Bulgaria", "BH": "Bahrain", "BI": "Burundi", "BJ": "Benin",
	"BM": "Bermuda", "BN": "Brunei", "BO": "Bolivia", "BR": "Brazil",
	"BS": "Bahamas", "BT": "Bhutan", "BW": "Botswana", "BY": "Belarus",
	"BZ": "Belize", "CA": "Canada", "CD": "Congo (Kinshasa)",
	"CF": "Central African Republic", "CG": "Congo (Brazzaville)",
	"CH": "Switzerland", "CI": "Ivory Coast", "CL": "Chile",
	"CM": "Cameroon", "CN": "China", "CO": "Colombia", "CR": "Costa Rica",
	"CU": "Cuba", "CV": "Cape Verde", "CY": "Cyprus",
	"CZ": "Czech Republic", "DE": "Germany", "DJ": "Djibouti",
	"DK": "Denmark", "DM": "Dominica", "DO": "Dominican Republic",
	"DZ": "Algeria", "EC": "Ecuador", "EE": "Estonia", "EG": "Egypt",
	"ER": "Eritrea", "ES": "Spain", "ET": "Ethiopia", "FI": "Finland",
	"FJ": "Fiji", "FM": "Micronesia", "FR": "France", "GA": "Gabon",
	"GB": "United Kingdom", "GD": "Grenada", "GE": "Georgia",
	"GF": "French Guiana", "GH": "Ghana", "GI": "Gibraltar",
	"GM": "Gambia", "GN": "Guinea", "GP": "Guadeloupe",
	"GQ": "Equatorial Guinea", "GR": "Greece", "GT": "Guatemala",
	"GW": "Guinea-Bissau", "GY": "Guyana", "HK": "Hong Kong",
	"HN": "Honduras", "HR": "Croatia", "HT": "Haiti", "HU": "Hungary",
	"ID": "Indonesia", "IE": "Ireland", "IL": "Israel", "IN": "India",
	"IQ": "Iraq", "IR": "Iran", "IS": "Iceland", "IT": "Italy",
	"JM": "Jamaica", "JO": "Jordan", "JP": "Japan", "KE": "Kenya",
	"KG": "Kyrgyzstan", "KH": "Cambodia", "KI": "Kiribati",
	"KM": "Comoros", "KN": "Saint Kitts and Nevis", "KP": "North Korea",
	"KR": "South Korea", "KW": "Kuwait", "KY": "Cayman Islands",
	"KZ": "Kazakhstan", "LA": "Laos", "LB": "Lebanon",
	"LC": "Saint Lucia", "LI": "Liechtenstein", "LK": "Sri Lanka",
	"LR": "Liberia", "LS": "Lesotho", "LT": "Lithuania",
	"LU": "Luxembourg", "LV": "Latvia", "LY": "Libya", "MA": "Morocco",
	"MC": "Monaco", "MD": "Moldova", "ME": "Montenegro",
	"MG": "Madagascar", "MK": "North Macedonia", "ML": "Mali",
	"MM": "Myanmar", "MN": "Mongolia", "MO": "Macao",
	"MQ": "Martinique", "MR": "Mauritania", "MT": "Malta",
	"MU": "Mauritius", "MV": "Maldives", "MW": "Malawi", "MX": "Mexico",
	"MY": "Malaysia", "MZ": "Mozambique", "NA": "Namibia", "NE": "Niger",
	"NG": "Nigeria", "NI": "Nicaragua", "NL": "Netherlands",
	"NO": "Norway", "NP": "Nepal", "NR": "Nauru", "NZ": "New Zealand",
	"OM": "Oman", "PA": "Panama", "PE": "Peru", "PF": "French Polynesia",
	"PG": "Papua New Guinea", "PH": "Philippines", "PK": "Pakistan",
	"PL": "Poland", "PS": "Palestine", "PT": "Portugal",
	"PW": "Palau", "PY": "Paraguay", "QA": "Qatar", "RE": "Reunion",
	"RO": "Romania", "RS": "Serbia", "RU": "Russia", "RW": "Rwanda",
	"SA": "Saudi Arabia", "SB": "Solomon Islands", "SC": "Seychelles",
	"SD": "Sudan", "SE": "Sweden", "SG": "Singapore", "SI": "Slovenia",
	"SK": "Slovakia", "SL": "Sierra Leone", "SM": "San Marino",
	"SN": "Senegal", "SO": "Somalia", "SR": "Suriname",
	"SS": "South Sudan", "ST": "Sao Tome and Principe",
	"SV": "El Salvador", "SY": "Syria", "SZ": "Eswatini", "TD": "Chad",
	"TG": "Togo", "TH": "Thailand", "TJ": "Tajikistan",
	"TL": "Timor-Leste", "TM": "Turkmenistan", "TN": "Tunisia",
	"TO": "Tonga", "TR": "Turkey", "TT": "Trinidad and Tobago",
	"TV": "Tuvalu", "TW": "Taiwan", "TZ": "Tanzania", "UA": "Ukraine",
	"UG": "Uganda", "US": "United States", "UY": "Uruguay",
	"UZ": "Uzbekistan", "VA": "Vatican City",
	"VC": "Saint Vincent and the Grenadines", "VE": "Venezuela",
	"VN": "Vietnam", "VU": "Vanuatu", "WS": "Samoa", "XK": "Kosovo",
	"YE": "Yemen", "ZA": "South Africa", "ZM": "Zambia", "ZW": "Zimbabwe",
}

// IsValid reports whether code is in the region table.
func IsValid(code string) bool {
	_, ok := regionNames[code]
	return ok
}

// Name returns the display name for a region code, falling back to the
// default region's name for unknown codes.
func Name(code string) string {
	if name, ok := regionNames[code]; ok {
		return name
	}
	return regionNames[Default]
}

// All returns every valid region code in lexical order.
func All() []string {
	codes := make([]string, 0, len(regionNames))
	for code := range regionNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
