package services

import (
	"strings"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// keywordFamily maps query keywords to a search shape.
type keywordFamily struct {
	class    domain.QueryClass
	keywords []string
	filter   domain.ChunkType

	// k of zero means the default K.
	k int
}

// families are checked in order; the first match wins.
var families = []keywordFamily{
	{
		class:    domain.QueryClassFee,
		keywords: []string{"costo", "cuesta", "precio", "fee", "cuánto", "cuanto", "valor", "matrícula", "matricula"},
		filter:   domain.ChunkTypeFee,
		k:        10,
	},
	{
		class:    domain.QueryClassProfession,
		keywords: []string{"trabajo", "laboral", "ocupacional", "desempeñar", "campo", "perfil"},
		filter:   domain.ChunkTypeOccupationalProfile,
		k:        5,
	},
	{
		class:    domain.QueryClassCurriculum,
		keywords: []string{"materia", "semestre", "curriculum", "currículo", "plan", "asignatura"},
		k:        8,
	},
	{
		class:    domain.QueryClassSemester,
		keywords: []string{"primer", "segundo", "tercer"},
		filter:   domain.ChunkTypeCurriculumSemester,
		k:        5,
	},
}

// Classify picks a chunk type filter and result count for query by keyword.
// Matching is by substring on the lowercased query.
func Classify(query string, defaultK int) domain.Classification {
	if defaultK <= 0 {
		defaultK = domain.DefaultSearchK
	}
	q := strings.ToLower(query)

	for _, f := range families {
		for _, kw := range f.keywords {
			if !strings.Contains(q, kw) {
				continue
			}
			k := f.k
			if k == 0 {
				k = defaultK
			}
			return domain.Classification{Class: f.class, TypeFilter: f.filter, K: k, Keyword: kw}
		}
	}
	return domain.Classification{Class: domain.QueryClassGeneral, K: defaultK}
}
