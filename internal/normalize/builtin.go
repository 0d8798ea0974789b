package normalize

import "github.com/KaramelBytes/surveylens/internal/survey"

// Municipalities of Colima plus the neighbouring ones respondents commute
// from. "villa" precedes "colima" so that "Villa de Álvarez, Colima" resolves
// to the municipality rather than the state.
var municipalityRules = RuleSet{
	Name:    survey.RuleSetMunicipality,
	Version: "2025.1",
	Rules: []Rule{
		{Label: "Villa de Álvarez", Patterns: []string{"villa de alvarez", "villa alvarez", "villa"}},
		{Label: "Cuauhtémoc", Patterns: []string{"cuauhtemoc", "cuahutemoc", "cuauthemoc", "cuatemoc"}},
		{Label: "Comala", Patterns: []string{"comala"}},
		{Label: "Coquimatlán", Patterns: []string{"coquimatlan"}},
		{Label: "Manzanillo", Patterns: []string{"manzanillo"}},
		{Label: "Tecomán", Patterns: []string{"tecoman"}},
		{Label: "Armería", Patterns: []string{"armeria"}},
		{Label: "Ixtlahuacán", Patterns: []string{"ixtlahuacan"}},
		{Label: "Minatitlán", Patterns: []string{"minatitlan"}},
		{Label: "Colima", Patterns: []string{"colima"}},
		{Label: "Aquila", Patterns: []string{"aquila"}},
		{Label: "Tonila", Patterns: []string{"tonila"}},
	},
	Default: Default{Label: OtherLabel},
}

// Institutions respondents graduated from. Named schools and the vocational
// high school systems come before "colima", which also appears in their
// campus names.
var institutionRules = RuleSet{
	Name:    survey.RuleSetInstitution,
	Version: "2025.1",
	Rules: []Rule{
		{Label: "ISENCO", Patterns: []string{"isenco"}},
		{Label: "ICEP", Patterns: []string{"icep"}},
		{Label: "Instituto Adonai", Patterns: []string{"adonai"}},
		{Label: "Colegio Ateneo", Patterns: []string{"ateneo"}},
		{Label: "Bachillerato Profesionalizante", Patterns: []string{
			"cetis", "cbtis", "cbta", "emsad", "telebachillerato", "tele bachillerato", "cobaem", "conalep", "cecytec",
		}},
		{Label: "Universidad Privada", Patterns: []string{"universidad privada", "privada", "univa", "uvm", "tec de monterrey"}},
		{Label: "Universidad de Colima", Patterns: []string{
			"universidad de colima", "udec", "u de c", "bachillerato tecnico", "tecnico", "colima",
		}},
	},
	Default: Default{Capitalize: true, Label: OtherLabel},
}

// Builtin returns copies of the built-in rule sets.
func Builtin() []RuleSet {
	return []RuleSet{clone(municipalityRules), clone(institutionRules)}
}

func clone(rs RuleSet) RuleSet {
	out := rs
	out.Rules = make([]Rule, len(rs.Rules))
	for i, r := range rs.Rules {
		out.Rules[i] = Rule{Label: r.Label, Patterns: append([]string(nil), r.Patterns...)}
	}
	return out
}
