package registry

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/spatialref/crstext/object"
)

// Seed is a declarative description of registry content, one list per
// table. Operation entries describe graph edges only; the operation's
// definition text still lives in an object entry under the same code.
type Seed struct {
	Metadata         map[string]string     `yaml:"metadata"`
	Objects          []SeedObject          `yaml:"objects"`
	Operations       []SeedOperation       `yaml:"operations"`
	Aliases          []SeedAlias           `yaml:"aliases"`
	Units            []SeedUnit            `yaml:"units"`
	GridPackages     []SeedGridPackage     `yaml:"grid_packages"`
	GridAlternatives []SeedGridAlternative `yaml:"grid_alternatives"`
}

type SeedObject struct {
	Authority   string `yaml:"authority"`
	Code        string `yaml:"code"`
	Category    string `yaml:"category"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Definition  string `yaml:"definition"`
	Deprecated  bool   `yaml:"deprecated"`
}

type SeedOperation struct {
	Authority       string   `yaml:"authority"`
	Code            string   `yaml:"code"`
	SourceAuthority string   `yaml:"source_authority"`
	SourceCode      string   `yaml:"source_code"`
	TargetAuthority string   `yaml:"target_authority"`
	TargetCode      string   `yaml:"target_code"`
	Accuracy        *float64 `yaml:"accuracy"`
	GridName        string   `yaml:"grid_name"`
}

type SeedAlias struct {
	Table     string `yaml:"table"`
	Authority string `yaml:"authority"`
	Code      string `yaml:"code"`
	AltName   string `yaml:"alt_name"`
	Source    string `yaml:"source"`
}

type SeedUnit struct {
	Authority  string  `yaml:"authority"`
	Code       string  `yaml:"code"`
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type"`
	Factor     float64 `yaml:"factor"`
	Deprecated bool    `yaml:"deprecated"`
}

type SeedGridPackage struct {
	Name           string `yaml:"name"`
	URL            string `yaml:"url"`
	DirectDownload bool   `yaml:"direct_download"`
	OpenLicense    bool   `yaml:"open_license"`
}

type SeedGridAlternative struct {
	Original       string `yaml:"original"`
	ProjName       string `yaml:"proj_name"`
	Format         string `yaml:"format"`
	Inverse        bool   `yaml:"inverse"`
	Package        string `yaml:"package"`
	URL            string `yaml:"url"`
	DirectDownload bool   `yaml:"direct_download"`
	OpenLicense    bool   `yaml:"open_license"`
}

// LoadSeed decodes a YAML seed and validates its category slugs.
func LoadSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	for i := range s.Objects {
		o := &s.Objects[i]
		if _, err := object.ParseCategory(o.Category); err != nil {
			return nil, fmt.Errorf("seed object %s:%s: %w", o.Authority, o.Code, err)
		}
	}
	return &s, nil
}

// Apply inserts the seed content in one transaction. The schema must
// already be in place, see InitSchema.
func (s *Seed) Apply(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	if err := s.apply(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

func (s *Seed) apply(tx *sql.Tx) error {
	for k, v := range s.Metadata {
		if _, err := tx.Exec(
			`INSERT INTO metadata (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", k, err)
		}
	}
	for _, o := range s.Objects {
		if _, err := tx.Exec(
			`INSERT INTO object (auth_name, code, category, name, description, definition, deprecated)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			o.Authority, o.Code, o.Category, o.Name, o.Description, o.Definition, o.Deprecated); err != nil {
			return fmt.Errorf("failed to insert object %s:%s: %w", o.Authority, o.Code, err)
		}
	}
	for _, op := range s.Operations {
		var accuracy any
		if op.Accuracy != nil {
			accuracy = *op.Accuracy
		}
		if _, err := tx.Exec(
			`INSERT INTO coordinate_operation
			 (auth_name, code, source_crs_auth_name, source_crs_code,
			  target_crs_auth_name, target_crs_code, accuracy, grid_name)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			op.Authority, op.Code, op.SourceAuthority, op.SourceCode,
			op.TargetAuthority, op.TargetCode, accuracy, op.GridName); err != nil {
			return fmt.Errorf("failed to insert operation %s:%s: %w", op.Authority, op.Code, err)
		}
	}
	for _, a := range s.Aliases {
		if _, err := tx.Exec(
			`INSERT INTO alias_name (table_name, auth_name, code, alt_name, source)
			 VALUES (?, ?, ?, ?, ?)`,
			a.Table, a.Authority, a.Code, a.AltName, a.Source); err != nil {
			return fmt.Errorf("failed to insert alias %q: %w", a.AltName, err)
		}
	}
	for _, u := range s.Units {
		if _, err := tx.Exec(
			`INSERT INTO unit_of_measure (auth_name, code, name, type, conv_factor, deprecated)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			u.Authority, u.Code, u.Name, u.Type, u.Factor, u.Deprecated); err != nil {
			return fmt.Errorf("failed to insert unit %s:%s: %w", u.Authority, u.Code, err)
		}
	}
	for _, gp := range s.GridPackages {
		if _, err := tx.Exec(
			`INSERT INTO grid_packages (package_name, url, direct_download, open_license)
			 VALUES (?, ?, ?, ?)`,
			gp.Name, gp.URL, gp.DirectDownload, gp.OpenLicense); err != nil {
			return fmt.Errorf("failed to insert grid package %q: %w", gp.Name, err)
		}
	}
	for _, ga := range s.GridAlternatives {
		format := ga.Format
		if format == "" {
			format = "CTable2"
		}
		if _, err := tx.Exec(
			`INSERT INTO grid_alternatives
			 (original_grid_name, proj_grid_name, proj_grid_format, inverse_direction,
			  package_name, url, direct_download, open_license)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ga.Original, ga.ProjName, format, ga.Inverse,
			ga.Package, ga.URL, ga.DirectDownload, ga.OpenLicense); err != nil {
			return fmt.Errorf("failed to insert grid alternative %q: %w", ga.Original, err)
		}
	}
	return nil
}
