package lexicon

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore serves the same resources from PostgreSQL, for deployments
// that manage glossaries centrally instead of shipping phrase files. All rows
// are loaded once at startup; the relay never queries the pool on the hot
// path.
type PostgresStore struct {
	pool     *pgxpool.Pool
	glossary map[string][]string
	phrases  map[string][]string
	rules    map[string][]Rule
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &PostgresStore{
		pool:     pool,
		glossary: make(map[string][]string),
		phrases:  make(map[string][]string),
		rules:    make(map[string][]Rule),
	}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := s.loadAll(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lexicon_glossary (
			pair TEXT NOT NULL,
			term TEXT NOT NULL,
			PRIMARY KEY (pair, term)
		);`,
		`CREATE TABLE IF NOT EXISTS lexicon_phrases (
			lang TEXT NOT NULL,
			position INT NOT NULL,
			phrase TEXT NOT NULL,
			PRIMARY KEY (lang, position)
		);`,
		`CREATE TABLE IF NOT EXISTS lexicon_rules (
			lang TEXT NOT NULL,
			position INT NOT NULL,
			search TEXT NOT NULL,
			replace TEXT NOT NULL,
			PRIMARY KEY (lang, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init lexicon schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) loadAll(ctx context.Context) error {
	rows, err := s.pool.Query(ctx, `SELECT pair, term FROM lexicon_glossary ORDER BY pair, term`)
	if err != nil {
		return fmt.Errorf("load glossary: %w", err)
	}
	for rows.Next() {
		var pair, term string
		if err := rows.Scan(&pair, &term); err != nil {
			rows.Close()
			return fmt.Errorf("scan glossary: %w", err)
		}
		s.glossary[pair] = append(s.glossary[pair], term)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load glossary: %w", err)
	}

	rows, err = s.pool.Query(ctx, `SELECT lang, phrase FROM lexicon_phrases ORDER BY lang, position`)
	if err != nil {
		return fmt.Errorf("load phrases: %w", err)
	}
	for rows.Next() {
		var lang, phrase string
		if err := rows.Scan(&lang, &phrase); err != nil {
			rows.Close()
			return fmt.Errorf("scan phrases: %w", err)
		}
		s.phrases[lang] = append(s.phrases[lang], phrase)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load phrases: %w", err)
	}

	rows, err = s.pool.Query(ctx, `SELECT lang, search, replace FROM lexicon_rules ORDER BY lang, position`)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	for rows.Next() {
		var lang, search, replace string
		if err := rows.Scan(&lang, &search, &replace); err != nil {
			rows.Close()
			return fmt.Errorf("scan rules: %w", err)
		}
		if search == "" {
			// Malformed rows degrade the same way malformed file entries do.
			log.Printf("skipping lexicon rule with empty search for %s", lang)
			continue
		}
		s.rules[lang] = append(s.rules[lang], Rule{Search: search, Replace: replace})
	}
	rows.Close()
	return rows.Err()
}

func (s *PostgresStore) Glossary(sourceLang, targetLang string) []string {
	return s.glossary[pairKey(sourceLang, targetLang)]
}

func (s *PostgresStore) Phrases(lang string) []string { return s.phrases[lang] }

func (s *PostgresStore) Rules(lang string) []Rule { return s.rules[lang] }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
