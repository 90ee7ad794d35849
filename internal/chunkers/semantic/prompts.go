package semantic

// Template placeholders.
const (
	PlaceholderName    = "{program_name}"
	PlaceholderContent = "{content}"
)

// DefaultPrompt is the full first-attempt prompt.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultPrompt = `Eres un experto en análisis de documentos académicos. Analiza este programa universitario y divide el contenido en chunks semánticamente coherentes.

PROGRAMA: {program_name}

CONTENIDO:
{content}

INSTRUCCIONES:
1. Identifica automáticamente las secciones principales (costo, perfil ocupacional, curriculum, etc.)
2. Crea chunks que mantengan contexto semántico completo
3. Cada chunk debe ser autocontenido y útil para búsquedas
4. Extrae metadatos relevantes (costo numérico, número de semestres, etc.)

FORMATO DE RESPUESTA (JSON):
{
    "chunks": [
        {
            "content": "Texto del chunk con contexto completo",
            "type": "fee|occupational_profile|curriculum_summary|curriculum_semester|program_overview",
            "metadata": {
                "program_name": "{program_name}",
                "semantic_focus": "Enfoque semántico del chunk",
                "extracted_entities": ["entidad1", "entidad2"],
                "chunk_strategy": "llm_semantic"
            }
        }
    ]
}

Responde SOLO con el JSON válido:`

// DefaultShortPrompt is the cheaper retry prompt.
const DefaultShortPrompt = `Analiza este programa y extrae información clave:

PROGRAMA: {program_name}
CONTENIDO: {content}

Crea chunks JSON:
{"chunks": [{"content": "texto", "type": "fee|occupational_profile|curriculum_summary", "metadata": {"program_name": "{program_name}"}}]}`
