package lexicon

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dobhashi/dobhashi/internal/language"
)

// FileStore loads resources from a phrases directory at construction time:
// <lang>_phrases.txt (plain lines), normalization_<lang>.json (ordered rule
// array), and a glossary JSON keyed by "source-target" pair.
type FileStore struct {
	glossary map[string][]string
	phrases  map[string][]string
	rules    map[string][]Rule
}

func NewFileStore(phrasesDir, glossaryPath string) *FileStore {
	s := &FileStore{
		glossary: loadGlossaryFile(glossaryPath),
		phrases:  make(map[string][]string),
		rules:    make(map[string][]Rule),
	}
	for _, lang := range language.Supported() {
		s.phrases[lang] = loadPhraseFile(filepath.Join(phrasesDir, lang+"_phrases.txt"))
		s.rules[lang] = loadRuleFile(filepath.Join(phrasesDir, "normalization_"+lang+".json"))
	}
	return s
}

func (s *FileStore) Glossary(sourceLang, targetLang string) []string {
	return s.glossary[pairKey(sourceLang, targetLang)]
}

func (s *FileStore) Phrases(lang string) []string { return s.phrases[lang] }

func (s *FileStore) Rules(lang string) []Rule { return s.rules[lang] }

func (s *FileStore) Close() error { return nil }

func loadPhraseFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("phrase file %s: %v", path, err)
		}
		return nil
	}
	defer f.Close()

	var phrases []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			phrases = append(phrases, line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("phrase file %s: %v", path, err)
	}
	return phrases
}

func loadRuleFile(path string) []Rule {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("normalization file %s: %v", path, err)
		}
		return nil
	}

	var raw []Rule
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("normalization file %s: %v", path, err)
		return nil
	}

	rules := make([]Rule, 0, len(raw))
	for _, r := range raw {
		// Entries without a search pattern are malformed; skip, never fail.
		if r.Search == "" {
			continue
		}
		rules = append(rules, r)
	}
	return rules
}

func loadGlossaryFile(path string) map[string][]string {
	glossary := make(map[string][]string)
	if path == "" {
		return glossary
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("glossary file %s: %v", path, err)
		}
		return glossary
	}
	if err := json.Unmarshal(data, &glossary); err != nil {
		log.Printf("glossary file %s: %v", path, err)
		return make(map[string][]string)
	}
	return glossary
}

