package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/curricula/internal/chunkers/semantic"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// errMissingPlaceholder rejects an edited template that would send the
// model no program text.
var errMissingPlaceholder = errors.New("prompt has no " + semantic.PlaceholderContent + " placeholder")

// placeholderPattern finds {name} tokens in a template.
var placeholderPattern = regexp.MustCompile(`\{[a-z_]+\}`)

// builtinPrompts are written to the directory on first use and returned
// whenever the file on disk is missing or unusable.
var builtinPrompts = map[string]string{
	driven.PromptSemanticChunk:      semantic.DefaultPrompt,
	driven.PromptSemanticChunkShort: semantic.DefaultShortPrompt,
}

// promptHelp describes each built-in prompt in the directory README.
var promptHelp = map[string]string{
	driven.PromptSemanticChunk:      "first attempt: full program, detailed chunk schema",
	driven.PromptSemanticChunkShort: "retry: truncated program, shorter schema",
}

// PromptStore serves chunking prompts from <dir>/<name>.txt so users can
// tune them without rebuilding. The directory is seeded with the
// built-in prompts on the first Load, never in the constructor.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
	group singleflight.Group
}

// NewPromptStore creates a store over dir, or ~/.curricula/prompts when
// dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".curricula", "prompts")
	}
	return &PromptStore{dir: dir, cache: map[string]string{}}, nil
}

// Load returns the template called name. Concurrent first loads of the
// same name share one read. A missing, unreadable or invalid file yields
// the built-in template; unknown names without a file are an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })
	if s.seedErr != nil {
		if builtin, ok := builtinPrompts[name]; ok {
			return builtin, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		prompt, err := s.read(name)
		if err != nil {
			builtin, ok := builtinPrompts[name]
			if !ok {
				return "", fmt.Errorf("load prompt %q: %w", name, err)
			}
			prompt = builtin
		}
		s.mu.Lock()
		s.cache[name] = prompt
		s.mu.Unlock()
		return prompt, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Reload forgets every cached template.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed creates the directory, any missing built-in prompt and the README.
// Existing files are left alone.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for name, body := range builtinPrompts {
		if err := writeIfMissing(s.path(name), body); err != nil {
			return fmt.Errorf("create default prompt %q: %w", name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme())
}

// read loads and validates one template from disk.
func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if _, builtin := builtinPrompts[name]; !builtin {
		return prompt, nil
	}

	if !strings.Contains(prompt, semantic.PlaceholderContent) {
		logger.Warn("prompt %s has no %s placeholder, using the built-in template", path, semantic.PlaceholderContent)
		return "", errMissingPlaceholder
	}
	if unknown := unknownPlaceholders(prompt); len(unknown) > 0 {
		logger.Warn("prompt %s: %s will be sent to the model verbatim", path, strings.Join(unknown, ", "))
	}
	return prompt, nil
}

// unknownPlaceholders lists the {tokens} the chunker does not fill in.
func unknownPlaceholders(prompt string) []string {
	var out []string
	for _, tok := range placeholderPattern.FindAllString(prompt, -1) {
		if tok == semantic.PlaceholderName || tok == semantic.PlaceholderContent || slices.Contains(out, tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

// promptReadme explains the directory to someone editing the prompts.
func promptReadme() string {
	names := make([]string, 0, len(promptHelp))
	for name := range promptHelp {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString("# Curricula prompts\n\n")
	b.WriteString("Templates used when programs are chunked by an LLM (semantic or hybrid mode).\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s.txt`: %s\n", name, promptHelp[name])
	}
	fmt.Fprintf(&b, "\nPlaceholders: `%s` is the program heading, `%s` the program text.\n",
		semantic.PlaceholderName, semantic.PlaceholderContent)
	b.WriteString("A template without the content placeholder is ignored.\n\n")
	b.WriteString("The model must answer with a JSON object holding a `chunks` array whose\n")
	b.WriteString("items have `content`, `chunk_type` and `metadata`.\n\n")
	b.WriteString("Delete a file to restore its default on the next run.\n")
	return b.String()
}
