// Package curriculum parses the curriculum markdown dialect into programs.
//
// The document has two top-level sections, each holding program headings
// ("### Name") with bold label fields and per-semester subject lists:
//
//	## PROGRAMAS DE TECNOLOGIA
//	### Ingenieria de Sistemas
//	**Costo Matricula:** $5.298.134 (💰cop)
//	**Perfil Ocupacional:** Diseña soluciones de software.
//	**Curriculo:**
//	#### Semestre I
//	- Matemáticas | 3 Créditos
//
// Parsing is line and regular-expression based. Locate finds the sections,
// Split cuts a section into raw programs, and Extract turns one raw program
// into a domain.Program, enforcing the marker validity gate.
package curriculum
