package datastore

import (
	"database/sql"
	"errors"
	"path"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/util/logger"
)

// DBFileName is the database shipped next to packaged executables.
const DBFileName = "default_config.db"

const configFilesSchema = `
	CREATE TABLE IF NOT EXISTS config_files (
		filename TEXT PRIMARY KEY NOT NULL,
		content TEXT NOT NULL
	);`

// DBSource serves files stored in the config_files table of a SQLite
// database. Lookups use the base name of the requested file.
type DBSource struct {
	db   *sqlx.DB
	path string
}

// OpenDB opens the database at path read-only.
func OpenDB(dbPath string) (*DBSource, error) {
	db, err := sqlx.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, oops.With("path", dbPath).Wrapf(err, "opening config database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, oops.With("path", dbPath).Wrapf(err, "opening config database")
	}
	log.WithFields(logger.Fields{"at": "OpenDB", "path": dbPath}).Debug("config database opened")
	return &DBSource{db: db, path: dbPath}, nil
}

// CreateDB creates (or opens) a writable database with the config_files
// table. It is used by packaging scripts and tests.
func CreateDB(dbPath string) (*DBSource, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, oops.With("path", dbPath).Wrapf(err, "creating config database")
	}
	if _, err := db.Exec(configFilesSchema); err != nil {
		db.Close()
		return nil, oops.With("path", dbPath).Wrapf(err, "creating config_files table")
	}
	return &DBSource{db: db, path: dbPath}, nil
}

// Put stores or replaces a file.
func (d *DBSource) Put(name string, content []byte) error {
	_, err := d.db.Exec(
		`INSERT INTO config_files (filename, content) VALUES (?, ?)
		ON CONFLICT(filename) DO UPDATE SET content = excluded.content`,
		path.Base(name), string(content),
	)
	if err != nil {
		return oops.With("path", d.path).Wrapf(err, "storing %s", name)
	}
	return nil
}

func (d *DBSource) ReadFile(name string) ([]byte, error) {
	var content string
	err := d.db.Get(&content, `SELECT content FROM config_files WHERE filename = ?`, path.Base(name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oops.With("path", d.path).Wrapf(ErrNotFound, "%s", name)
		}
		return nil, oops.With("path", d.path).Wrapf(err, "reading %s", name)
	}
	return []byte(content), nil
}

// Files lists the stored file names.
func (d *DBSource) Files() ([]string, error) {
	var names []string
	if err := d.db.Select(&names, `SELECT filename FROM config_files ORDER BY filename`); err != nil {
		return nil, oops.With("path", d.path).Wrapf(err, "listing config files")
	}
	return names, nil
}

func (d *DBSource) Close() error {
	return d.db.Close()
}

func (d *DBSource) String() string { return "db:" + d.path }
