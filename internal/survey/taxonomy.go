package survey

// Column headers of the ITC enrollment questionnaire export.
const (
	FieldSex          = "Seleccione su sexo"
	FieldMunicipality = "Municipio donde vive actualmente"
	FieldInstitution  = "¿De qué institución académica egresaste?"
	FieldCareer       = "¿A qué carrera desea ingresar?"
	FieldStatus       = "En este momento, usted"
	FieldAge          = "Edad en años cumplidos"
	FieldGradeAverage = "¿Cuál fue tu promedio de calificación del tercer año de bachillerato?"
	FieldCommute      = "¿Cuánto tiempo le toma desplazarse a pie o vehículo público o privado del lugar donde vive a esta Institución Académica?"
	FieldStudyHours   = "¿Cuántas horas al día dedica a estudiar fuera del aula?"
	FieldDistress     = "En las últimas dos semanas ¿Cuántas veces se ha sentido desmotivado o triste?"
	FieldPaidWork     = "Actualmente, ¿realiza trabajo remunerado?"
	FieldSupport      = "¿Quién lo ha apoyado económicamente en sus estudios previos?"
	FieldStudyPlace   = "¿Cuenta con un lugar adecuado para estudiar en casa?"
	FieldConnectivity = "¿Tengo acceso a internet y computadora en casa?"
	FieldPsychology   = "En el último año, ¿ha acudido a consulta por atención psicológica?"
	FieldMotivators   = "¿Cuenta con personas que lo motivan o apoyan a continuar su carrera?"
)

// Built-in rule set and parser variant names referenced by DefaultFieldSpecs.
const (
	RuleSetMunicipality = "municipio"
	RuleSetInstitution  = "institucion"

	ParserRange     = "range"
	ParserZeroFloor = "range-zero-floor"
)

// DefaultFieldSpecs returns the questionnaire taxonomy the ITC dashboard reports on.
func DefaultFieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Field: FieldSex, Role: RoleCategoricalRaw},
		{Field: FieldMunicipality, Role: RoleCategoricalNormalized, RuleSet: RuleSetMunicipality, Derived: "Municipio_Normalizado"},
		{Field: FieldInstitution, Role: RoleCategoricalNormalized, RuleSet: RuleSetInstitution, Derived: "Institucion_Normalizada"},
		{Field: FieldCareer, Role: RoleCategoricalRaw, Order: OrderFrequency},
		{Field: FieldStatus, Role: RoleCategoricalRaw},
		{Field: FieldAge, Role: RoleRangeNumeric, Parser: ParserRange, Derived: "Edad_Num"},
		{Field: FieldGradeAverage, Role: RoleRangeNumeric, Parser: ParserRange, Derived: "Promedio_Num"},
		{Field: FieldCommute, Role: RoleRangeNumeric, Parser: ParserRange, Derived: "Tiempo_Desplazamiento_Num", Distribution: true},
		{Field: FieldStudyHours, Role: RoleRangeNumeric, Parser: ParserZeroFloor, Derived: "Tiempo_Estudio_Num"},
		{Field: FieldDistress, Role: RoleRangeNumeric, Parser: ParserZeroFloor, Derived: "Triste_Num"},
		{Field: FieldPaidWork, Role: RoleCategoricalRaw},
		{Field: FieldSupport, Role: RoleCategoricalRaw, Order: OrderFrequency},
		{Field: FieldStudyPlace, Role: RoleCategoricalRaw},
		{Field: FieldConnectivity, Role: RoleCategoricalRaw},
		{Field: FieldPsychology, Role: RoleCategoricalRaw},
		{Field: FieldMotivators, Role: RoleCategoricalRaw},
	}
}
