package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	gocache "github.com/patrickmn/go-cache"

	"github.com/spatialref/crstext/debug"
)

// Context wraps a read-only registry database plus lookup caches. The store
// is immutable once opened, so cached rows never expire.
type Context struct {
	db        *sql.DB
	path      string
	gridPaths []string

	meta  *gocache.Cache
	alias *gocache.Cache
	grids *gocache.Cache
}

func newContext(db *sql.DB, path string) *Context {
	return &Context{
		db:    db,
		path:  path,
		meta:  gocache.New(gocache.NoExpiration, 0),
		alias: gocache.New(gocache.NoExpiration, 0),
		grids: gocache.New(gocache.NoExpiration, 0),
	}
}

// Open opens the registry at path read-only. Auxiliary database files are
// attached under schema names aux1, aux2, ... so a build can split rarely
// used tables out of the main file.
func Open(path string, auxiliary ...string) (*Context, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open registry %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open registry %s: %w", path, err)
	}
	for i, aux := range auxiliary {
		schema := fmt.Sprintf("aux%d", i+1)
		if _, err := db.Exec("ATTACH DATABASE ? AS "+schema, "file:"+aux+"?mode=ro"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to attach %s: %w", aux, err)
		}
	}
	if debug.Registry() {
		debug.Logf("registry: opened %s (%d auxiliary)\n", path, len(auxiliary))
	}
	return newContext(db, path), nil
}

// NewFromDB wraps a caller-owned handle, typically an in-memory database
// prepared with InitSchema and a Seed.
func NewFromDB(db *sql.DB) *Context {
	return newContext(db, "")
}

// Close closes the underlying handle.
func (c *Context) Close() error {
	return c.db.Close()
}

// Path returns the main database file path; empty for NewFromDB contexts.
func (c *Context) Path() string { return c.path }

// DB exposes the underlying handle for seeding and tests.
func (c *Context) DB() *sql.DB { return c.db }

// SetGridPaths sets the directories searched when deciding whether a grid
// file is present on this machine.
func (c *Context) SetGridPaths(paths ...string) {
	c.gridPaths = append([]string(nil), paths...)
}

// Metadata returns the value stored under key, for example "EPSG.VERSION".
func (c *Context) Metadata(key string) (string, error) {
	if v, ok := c.meta.Get(key); ok {
		return v.(string), nil
	}
	var value string
	err := c.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: no metadata under key %q", ErrLookup, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read metadata: %w", err)
	}
	c.meta.Set(key, value, gocache.NoExpiration)
	return value, nil
}

// Authorities lists the authorities contributing objects, sorted.
func (c *Context) Authorities() ([]string, error) {
	rows, err := c.db.Query(`SELECT DISTINCT auth_name FROM object ORDER BY auth_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list authorities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var auths []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("failed to scan authority row: %w", err)
		}
		auths = append(auths, a)
	}
	return auths, rows.Err()
}

// DatabaseStructure returns the DDL of every table, index, view and trigger
// in the registry, in creation order.
func (c *Context) DatabaseStructure() ([]string, error) {
	rows, err := c.db.Query(`SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to read structure: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ddl []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return nil, fmt.Errorf("failed to scan structure row: %w", err)
		}
		ddl = append(ddl, stmt)
	}
	return ddl, rows.Err()
}

// TextDefinition returns the stored text definition of authority:code. The
// projstring parser resolves +init references through this method.
func (c *Context) TextDefinition(authority, code string) (string, error) {
	var def string
	err := c.db.QueryRow(
		`SELECT definition FROM object WHERE auth_name = ? COLLATE NOCASE AND code = ?`,
		authority, code,
	).Scan(&def)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &UnknownCodeError{Authority: authority, Code: code}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read definition: %w", err)
	}
	if def == "" {
		return "", fmt.Errorf("%w: %s:%s has no text definition", ErrLookup, authority, code)
	}
	if debug.Registry() {
		debug.Logf("registry: definition %s:%s = %q\n", authority, code, def)
	}
	return def, nil
}

// AliasFromOfficialName returns the alternate spelling recorded by source
// for the object officially named officialName in table. Empty when none is
// recorded; the bracketed formatter uses this for dialect renames.
func (c *Context) AliasFromOfficialName(officialName, table, source string) (string, error) {
	key := officialName + "\x00" + table + "\x00" + source
	if v, ok := c.alias.Get(key); ok {
		return v.(string), nil
	}
	var alt string
	err := c.db.QueryRow(`
		SELECT a.alt_name FROM alias_name a
		JOIN object o ON o.auth_name = a.auth_name AND o.code = a.code
		WHERE o.name = ? AND a.table_name = ? AND a.source = ?
		ORDER BY a.rowid LIMIT 1`,
		officialName, table, source,
	).Scan(&alt)
	if errors.Is(err, sql.ErrNoRows) {
		c.alias.Set(key, "", gocache.NoExpiration)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up alias: %w", err)
	}
	c.alias.Set(key, alt, gocache.NoExpiration)
	return alt, nil
}

// IsKnownName reports whether name appears in table, as an official name or
// an alias. Matching is case-insensitive.
func (c *Context) IsKnownName(name, table string) (bool, error) {
	var known bool
	err := c.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM object WHERE name = ? COLLATE NOCASE AND category = ?)
		    OR EXISTS (SELECT 1 FROM alias_name WHERE alt_name = ? COLLATE NOCASE AND table_name = ?)`,
		name, table, name, table,
	).Scan(&known)
	if err != nil {
		return false, fmt.Errorf("failed to probe name: %w", err)
	}
	return known, nil
}

// GridAlternative describes the locally usable replacement for an
// authority-named grid file.
type GridAlternative struct {
	ProjFilename string
	ProjFormat   string
	Inverse      bool
}

// LookForGridAlternative returns the replacement registered for a grid named
// by an authority. A missing row is ok=false, not an error.
func (c *Context) LookForGridAlternative(officialName string) (GridAlternative, bool, error) {
	if v, ok := c.grids.Get(officialName); ok {
		ga := v.(GridAlternative)
		return ga, ga.ProjFilename != "", nil
	}
	var ga GridAlternative
	err := c.db.QueryRow(`
		SELECT proj_grid_name, proj_grid_format, inverse_direction
		FROM grid_alternatives WHERE original_grid_name = ?`,
		officialName,
	).Scan(&ga.ProjFilename, &ga.ProjFormat, &ga.Inverse)
	if errors.Is(err, sql.ErrNoRows) {
		c.grids.Set(officialName, GridAlternative{}, gocache.NoExpiration)
		return GridAlternative{}, false, nil
	}
	if err != nil {
		return GridAlternative{}, false, fmt.Errorf("failed to look up grid alternative: %w", err)
	}
	c.grids.Set(officialName, ga, gocache.NoExpiration)
	if debug.Grids() {
		debug.Logf("grids: %s -> %s (%s, inverse=%v)\n",
			officialName, ga.ProjFilename, ga.ProjFormat, ga.Inverse)
	}
	return ga, true, nil
}

// GridInfo describes where a grid file can be obtained and whether it is
// already present under the grid search paths.
type GridInfo struct {
	FullFilename   string
	PackageName    string
	URL            string
	DirectDownload bool
	OpenLicense    bool
	Available      bool
}

// LookForGridInfo returns download and availability information for a grid
// file, looked up under both its authority name and its local name. A grid
// the registry does not know is ok=false, not an error. Availability is not
// cached because it depends on the filesystem.
func (c *Context) LookForGridInfo(filename string) (GridInfo, bool, error) {
	var (
		gi       GridInfo
		projName string
		gpURL    sql.NullString
		gpDD     sql.NullBool
		gpOL     sql.NullBool
	)
	err := c.db.QueryRow(`
		SELECT ga.proj_grid_name, ga.package_name, ga.url, ga.direct_download, ga.open_license,
		       gp.url, gp.direct_download, gp.open_license
		FROM grid_alternatives ga
		LEFT JOIN grid_packages gp ON gp.package_name = ga.package_name
		WHERE ga.proj_grid_name = ? OR ga.original_grid_name = ?
		ORDER BY ga.rowid LIMIT 1`,
		filename, filename,
	).Scan(&projName, &gi.PackageName, &gi.URL, &gi.DirectDownload, &gi.OpenLicense,
		&gpURL, &gpDD, &gpOL)
	if errors.Is(err, sql.ErrNoRows) {
		return GridInfo{}, false, nil
	}
	if err != nil {
		return GridInfo{}, false, fmt.Errorf("failed to look up grid info: %w", err)
	}
	// per-grid fields beat the package defaults
	if gi.URL == "" && gpURL.Valid {
		gi.URL = gpURL.String
		gi.DirectDownload = gpDD.Valid && gpDD.Bool
		gi.OpenLicense = gpOL.Valid && gpOL.Bool
	}
	for _, dir := range c.gridPaths {
		full := filepath.Join(dir, projName)
		if st, err := os.Stat(full); err == nil && !st.IsDir() {
			gi.FullFilename = full
			gi.Available = true
			break
		}
	}
	if debug.Grids() {
		debug.Logf("grids: info %s available=%v package=%q\n", filename, gi.Available, gi.PackageName)
	}
	return gi, true, nil
}
