package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spatialref/crstext/debug"
	"github.com/spatialref/crstext/object"
	"github.com/spatialref/crstext/projstring"
	"github.com/spatialref/crstext/wkt"
)

// AuthorityCode identifies one registry entry.
type AuthorityCode struct {
	Authority string
	Code      string
}

func (ac AuthorityCode) String() string { return ac.Authority + ":" + ac.Code }

// Factory resolves codes and names against one authority of a Context, or
// against every authority when bound to the empty string.
type Factory struct {
	ctx       *Context
	authority string
}

func NewFactory(ctx *Context, authority string) *Factory {
	return &Factory{ctx: ctx, authority: authority}
}

// Authority returns the authority this factory is bound to; empty means all.
func (f *Factory) Authority() string { return f.authority }

type objectRow struct {
	Authority   string
	Code        string
	Category    object.Category
	Name        string
	Description string
	Definition  string
	Deprecated  bool
}

func (f *Factory) fetchRow(code string) (*objectRow, error) {
	query := `SELECT auth_name, code, category, name, description, definition, deprecated
		FROM object WHERE code = ?`
	args := []any{code}
	if f.authority != "" {
		query += ` AND auth_name = ? COLLATE NOCASE`
		args = append(args, f.authority)
	}
	query += ` ORDER BY rowid LIMIT 1`

	var (
		r        objectRow
		category string
	)
	err := f.ctx.db.QueryRow(query, args...).Scan(
		&r.Authority, &r.Code, &category, &r.Name, &r.Description, &r.Definition, &r.Deprecated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &UnknownCodeError{Authority: f.authority, Code: code}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read object row: %w", err)
	}
	cat, err := object.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%s has category %q", ErrLookup, r.Authority, r.Code, category)
	}
	r.Category = cat
	return &r, nil
}

// CreateObject resolves a code and parses its stored definition with the
// grammar it is written in. Codes of units of measure resolve too, through
// their own table.
func (f *Factory) CreateObject(code string) (object.Object, error) {
	return f.createObject(code, false)
}

func (f *Factory) createObject(code string, altGrids bool) (object.Object, error) {
	row, err := f.fetchRow(code)
	var unknown *UnknownCodeError
	if errors.As(err, &unknown) {
		if u, uerr := f.CreateUnitOfMeasure(code); uerr == nil {
			return u.AsObject(), nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if debug.Registry() {
		debug.Logf("registry: create %s:%s (%s)\n", row.Authority, row.Code, row.Category)
	}
	return f.parseDefinition(row, altGrids)
}

func (f *Factory) parseDefinition(row *objectRow, altGrids bool) (object.Object, error) {
	def := strings.TrimSpace(row.Definition)
	if def == "" {
		return nil, fmt.Errorf("%w: %s:%s has no definition", ErrLookup, row.Authority, row.Code)
	}

	var payload object.Object
	if strings.HasPrefix(def, "+") || strings.HasPrefix(def, "proj=") {
		p := projstring.NewParser(projstring.WithInitResolver(f.ctx))
		obj, err := p.CreateFromPROJString(def)
		if err != nil {
			return nil, fmt.Errorf("%w: bad stored definition for %s:%s: %v",
				ErrLookup, row.Authority, row.Code, err)
		}
		payload = obj
	} else {
		obj, err := wkt.NewParser().CreateFromWKT(def)
		if err != nil {
			return nil, fmt.Errorf("%w: bad stored definition for %s:%s: %v",
				ErrLookup, row.Authority, row.Code, err)
		}
		payload = obj
	}

	if altGrids {
		if src, ok := payload.(projstring.PipelineSource); ok {
			pl, changed, err := f.substituteGrids(src.Pipeline().Clone())
			if err != nil {
				return nil, err
			}
			if changed {
				payload = &pipelineObject{pl: pl}
			}
		}
	}

	return &registryObject{
		payload:    payload,
		name:       row.Name,
		category:   row.Category,
		authority:  row.Authority,
		code:       row.Code,
		deprecated: row.Deprecated,
	}, nil
}

// substituteGrids replaces authority grid names with their registered local
// alternatives; an alternative measured the other way flips the step.
func (f *Factory) substituteGrids(pl *projstring.Pipeline) (*projstring.Pipeline, bool, error) {
	changed := false
	for si := range pl.Steps {
		s := &pl.Steps[si]
		for pi := range s.Params {
			p := &s.Params[pi]
			if !projstring.IsGridParam(p.Name) {
				continue
			}
			pieces := strings.Split(p.ValueString(), ",")
			replaced := false
			for k, piece := range pieces {
				optional := strings.HasPrefix(piece, "@")
				name := strings.TrimPrefix(piece, "@")
				if name == "" || name == "null" {
					continue
				}
				alt, ok, err := f.ctx.LookForGridAlternative(name)
				if err != nil {
					return nil, false, err
				}
				if !ok || alt.ProjFilename == name {
					continue
				}
				if optional {
					pieces[k] = "@" + alt.ProjFilename
				} else {
					pieces[k] = alt.ProjFilename
				}
				if alt.Inverse {
					s.Inverted = !s.Inverted
				}
				replaced = true
			}
			if replaced {
				*p = projstring.Param{
					Name: p.Name, Kind: projstring.StringParam, Str: strings.Join(pieces, ","),
				}
				changed = true
			}
		}
	}
	return pl, changed, nil
}

// CreateCoordinateReferenceSystem resolves code and checks it denotes a CRS.
func (f *Factory) CreateCoordinateReferenceSystem(code string) (object.Object, error) {
	obj, err := f.CreateObject(code)
	if err != nil {
		return nil, err
	}
	if !obj.Category().IsCRS() {
		return nil, fmt.Errorf("%w: %s is %s, not a reference system", ErrLookup, code, obj.Category())
	}
	return obj, nil
}

// CreateDatum resolves code and checks it denotes a datum of either kind.
func (f *Factory) CreateDatum(code string) (object.Object, error) {
	obj, err := f.CreateObject(code)
	if err != nil {
		return nil, err
	}
	switch obj.Category() {
	case object.CategoryGeodeticDatum, object.CategoryVerticalDatum:
		return obj, nil
	}
	return nil, fmt.Errorf("%w: %s is %s, not a datum", ErrLookup, code, obj.Category())
}

func (f *Factory) CreateEllipsoid(code string) (object.Object, error) {
	return f.createChecked(code, object.CategoryEllipsoid)
}

func (f *Factory) CreatePrimeMeridian(code string) (object.Object, error) {
	return f.createChecked(code, object.CategoryPrimeMeridian)
}

func (f *Factory) CreateConversion(code string) (object.Object, error) {
	return f.createChecked(code, object.CategoryConversion)
}

func (f *Factory) createChecked(code string, want object.Category) (object.Object, error) {
	obj, err := f.CreateObject(code)
	if err != nil {
		return nil, err
	}
	if !obj.Category().Matches(want) {
		return nil, fmt.Errorf("%w: %s is %s, not %s", ErrLookup, code, obj.Category(), want)
	}
	return obj, nil
}

// CreateCoordinateOperation resolves an operation code. With
// usePROJAlternativeGridNames the grids named in the stored pipeline are
// replaced by their registered local alternatives.
func (f *Factory) CreateCoordinateOperation(code string, usePROJAlternativeGridNames bool) (object.Object, error) {
	obj, err := f.createObject(code, usePROJAlternativeGridNames)
	if err != nil {
		return nil, err
	}
	if !obj.Category().IsOperation() {
		return nil, fmt.Errorf("%w: %s is %s, not a coordinate operation", ErrLookup, code, obj.Category())
	}
	return obj, nil
}

// CreateUnitOfMeasure resolves a unit code. Unit rows carry their kind and
// conversion factor as columns rather than a text definition.
func (f *Factory) CreateUnitOfMeasure(code string) (object.Unit, error) {
	query := `SELECT auth_name, code, name, type, conv_factor FROM unit_of_measure WHERE code = ?`
	args := []any{code}
	if f.authority != "" {
		query += ` AND auth_name = ? COLLATE NOCASE`
		args = append(args, f.authority)
	}
	query += ` ORDER BY rowid LIMIT 1`

	var (
		u    object.Unit
		kind string
	)
	err := f.ctx.db.QueryRow(query, args...).Scan(&u.Authority, &u.Code, &u.Name, &kind, &u.Factor)
	if errors.Is(err, sql.ErrNoRows) {
		return object.Unit{}, &UnknownCodeError{Authority: f.authority, Code: code}
	}
	if err != nil {
		return object.Unit{}, fmt.Errorf("failed to read unit row: %w", err)
	}
	u.Kind = object.ParseUnitKind(kind)
	return u, nil
}

// opEdge is a row of the operation edge table.
type opEdge struct {
	id       AuthorityCode
	gridName string
}

// operationEdges returns the operations transforming src into dst, in rowid
// order. Empty authorities on either side match anything.
func (f *Factory) operationEdges(src, dst AuthorityCode) ([]opEdge, error) {
	query := `SELECT auth_name, code, grid_name FROM coordinate_operation
		WHERE source_crs_code = ? AND target_crs_code = ?`
	args := []any{src.Code, dst.Code}
	if src.Authority != "" {
		query += ` AND source_crs_auth_name = ? COLLATE NOCASE`
		args = append(args, src.Authority)
	}
	if dst.Authority != "" {
		query += ` AND target_crs_auth_name = ? COLLATE NOCASE`
		args = append(args, dst.Authority)
	}
	if f.authority != "" {
		query += ` AND auth_name = ? COLLATE NOCASE`
		args = append(args, f.authority)
	}
	query += ` ORDER BY rowid`

	rows, err := f.ctx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var edges []opEdge
	for rows.Next() {
		var e opEdge
		if err := rows.Scan(&e.id.Authority, &e.id.Code, &e.gridName); err != nil {
			return nil, fmt.Errorf("failed to scan operation row: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// CreateFromCoordinateReferenceSystemCodes lists the operations transforming
// srcCode into dstCode within the factory's authority.
func (f *Factory) CreateFromCoordinateReferenceSystemCodes(srcCode, dstCode string) ([]object.Object, error) {
	return f.CreateFromCRSCodes(f.authority, srcCode, f.authority, dstCode, false, false)
}

// CreateFromCRSCodes lists the operations transforming the source reference
// system into the target one, in registry order. discardIfMissingGrid drops
// operations whose required grids are not present under the context's grid
// paths; optional grids never cause a discard.
func (f *Factory) CreateFromCRSCodes(srcAuth, srcCode, dstAuth, dstCode string,
	usePROJAlternativeGridNames, discardIfMissingGrid bool) ([]object.Object, error) {

	edges, err := f.operationEdges(AuthorityCode{srcAuth, srcCode}, AuthorityCode{dstAuth, dstCode})
	if err != nil {
		return nil, err
	}
	var out []object.Object
	for _, e := range edges {
		op, err := NewFactory(f.ctx, e.id.Authority).createObject(e.id.Code, usePROJAlternativeGridNames)
		if err != nil {
			return nil, err
		}
		if discardIfMissingGrid {
			missing, err := f.missingGrid(op, e.gridName)
			if err != nil {
				return nil, err
			}
			if missing {
				continue
			}
		}
		out = append(out, op)
	}
	return out, nil
}

// missingGrid reports whether op requires a grid that is not available. It
// checks the edge row's grid column and every required grid parameter of a
// pipeline-backed definition.
func (f *Factory) missingGrid(op object.Object, edgeGrid string) (bool, error) {
	names := []string{}
	if edgeGrid != "" && !strings.HasPrefix(edgeGrid, "@") {
		names = append(names, edgeGrid)
	}
	if ro, ok := op.(*registryObject); ok {
		if src, ok := ro.payload.(projstring.PipelineSource); ok {
			for _, s := range src.Pipeline().Steps {
				for _, p := range s.Params {
					if !projstring.IsGridParam(p.Name) {
						continue
					}
					for _, piece := range strings.Split(p.ValueString(), ",") {
						if strings.HasPrefix(piece, "@") || piece == "" || piece == "null" {
							continue
						}
						names = append(names, piece)
					}
				}
			}
		}
	}
	for _, name := range names {
		gi, known, err := f.ctx.LookForGridInfo(name)
		if err != nil {
			return false, err
		}
		if !known || !gi.Available {
			if debug.Grids() {
				debug.Logf("grids: discarding operation, %s unavailable\n", name)
			}
			return true, nil
		}
	}
	return false, nil
}

// directedEdge is an edge traversed forward or against its direction.
type directedEdge struct {
	opEdge
	reversed bool
}

// directedEdges returns the edges usable to move from a to b: rows recorded
// a to b, then rows recorded b to a traversed in reverse.
func (f *Factory) directedEdges(a, b AuthorityCode) ([]directedEdge, error) {
	fwd, err := f.operationEdges(a, b)
	if err != nil {
		return nil, err
	}
	rev, err := f.operationEdges(b, a)
	if err != nil {
		return nil, err
	}
	out := make([]directedEdge, 0, len(fwd)+len(rev))
	for _, e := range fwd {
		out = append(out, directedEdge{opEdge: e})
	}
	for _, e := range rev {
		out = append(out, directedEdge{opEdge: e, reversed: true})
	}
	return out, nil
}

// CreateFromCRSCodesWithIntermediates searches two-hop paths through pivot
// reference systems. Edges are usable in either direction; a hop against an
// edge's direction is emitted inside an inversion. With no intermediates
// given, every system adjacent to the source is probed.
func (f *Factory) CreateFromCRSCodesWithIntermediates(srcAuth, srcCode, dstAuth, dstCode string,
	usePROJAlternativeGridNames, discardIfMissingGrid bool,
	intermediates []AuthorityCode) ([]object.Object, error) {

	src := AuthorityCode{srcAuth, srcCode}
	dst := AuthorityCode{dstAuth, dstCode}
	pivots := intermediates
	if len(pivots) == 0 {
		var err error
		pivots, err = f.candidatePivots(src)
		if err != nil {
			return nil, err
		}
	}

	var out []object.Object
	for _, via := range pivots {
		if via == src || via == dst {
			continue
		}
		first, err := f.directedEdges(src, via)
		if err != nil {
			return nil, err
		}
		if len(first) == 0 {
			continue
		}
		second, err := f.directedEdges(via, dst)
		if err != nil {
			return nil, err
		}
		for _, a := range first {
			for _, b := range second {
				op, err := f.concatenated(a, b, usePROJAlternativeGridNames, discardIfMissingGrid)
				if err != nil {
					return nil, err
				}
				if op != nil {
					out = append(out, op)
				}
			}
		}
	}
	return out, nil
}

// candidatePivots lists the reference systems adjacent to src through any
// edge, in either direction, sorted for determinism.
func (f *Factory) candidatePivots(src AuthorityCode) ([]AuthorityCode, error) {
	query := `
		SELECT DISTINCT target_crs_auth_name, target_crs_code FROM coordinate_operation
		WHERE source_crs_code = ?` + f.authorityPred("source_crs_auth_name", src.Authority) + `
		UNION
		SELECT DISTINCT source_crs_auth_name, source_crs_code FROM coordinate_operation
		WHERE target_crs_code = ?` + f.authorityPred("target_crs_auth_name", src.Authority) + `
		ORDER BY 1, 2`
	args := []any{src.Code}
	if src.Authority != "" {
		args = append(args, src.Authority)
	}
	args = append(args, src.Code)
	if src.Authority != "" {
		args = append(args, src.Authority)
	}

	rows, err := f.ctx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pivots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pivots []AuthorityCode
	for rows.Next() {
		var ac AuthorityCode
		if err := rows.Scan(&ac.Authority, &ac.Code); err != nil {
			return nil, fmt.Errorf("failed to scan pivot row: %w", err)
		}
		pivots = append(pivots, ac)
	}
	return pivots, rows.Err()
}

func (f *Factory) authorityPred(column, authority string) string {
	if authority == "" {
		return ""
	}
	return ` AND ` + column + ` = ? COLLATE NOCASE`
}

// concatenated builds the two-leg operation, or nil when a grid discard
// applies.
func (f *Factory) concatenated(a, b directedEdge,
	usePROJAlternativeGridNames, discardIfMissingGrid bool) (object.Object, error) {

	legs := make([]operationLeg, 0, 2)
	for _, e := range []directedEdge{a, b} {
		op, err := NewFactory(f.ctx, e.id.Authority).createObject(e.id.Code, usePROJAlternativeGridNames)
		if err != nil {
			return nil, err
		}
		if discardIfMissingGrid {
			missing, err := f.missingGrid(op, e.gridName)
			if err != nil {
				return nil, err
			}
			if missing {
				return nil, nil
			}
		}
		legs = append(legs, operationLeg{op: op, reversed: e.reversed})
	}
	return &concatenatedOperation{
		name: legName(legs[0]) + " + " + legName(legs[1]),
		legs: legs,
	}, nil
}

func legName(l operationLeg) string {
	if l.reversed {
		return "Inverse of " + l.op.Name()
	}
	return l.op.Name()
}

// CreateObjectsFromName finds objects by official name or alias. Exact
// matching is case-insensitive with underscores read as spaces; approximate
// matching adds substring containment. Results keep registry (rowid) order,
// official names before aliases, truncated to limit when positive.
func (f *Factory) CreateObjectsFromName(name string, categories []object.Category,
	approximateMatch bool, limit int) ([]object.Object, error) {

	needle := normalizeName(name)
	if needle == "" {
		return nil, fmt.Errorf("%w: empty name", ErrLookup)
	}
	ids, err := f.lookupByName(needle, categories, false)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 && approximateMatch {
		ids, err = f.lookupByName(needle, categories, true)
		if err != nil {
			return nil, err
		}
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]object.Object, 0, len(ids))
	for _, id := range ids {
		obj, err := NewFactory(f.ctx, id.Authority).CreateObject(id.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func normalizeName(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '_' || r == '\t'
	})
	return strings.Join(fields, " ")
}

func (f *Factory) lookupByName(needle string, categories []object.Category, approx bool) ([]AuthorityCode, error) {
	cmp, arg := "= ?", needle
	if approx {
		esc := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(needle)
		cmp, arg = `LIKE '%' || ? || '%' ESCAPE '\'`, esc
	}

	type namedQuery struct {
		query string
		args  []any
	}
	queries := make([]namedQuery, 0, 2)

	q := `SELECT auth_name, code, category FROM object
		WHERE lower(replace(name, '_', ' ')) ` + cmp
	args := []any{arg}
	if f.authority != "" {
		q += ` AND auth_name = ? COLLATE NOCASE`
		args = append(args, f.authority)
	}
	queries = append(queries, namedQuery{q + ` ORDER BY rowid`, args})

	q = `SELECT o.auth_name, o.code, o.category FROM alias_name a
		JOIN object o ON o.auth_name = a.auth_name AND o.code = a.code
		WHERE lower(replace(a.alt_name, '_', ' ')) ` + cmp
	args = []any{arg}
	if f.authority != "" {
		q += ` AND o.auth_name = ? COLLATE NOCASE`
		args = append(args, f.authority)
	}
	queries = append(queries, namedQuery{q + ` ORDER BY a.rowid`, args})

	seen := map[AuthorityCode]bool{}
	var ids []AuthorityCode
	for _, nq := range queries {
		rows, err := f.ctx.db.Query(nq.query, nq.args...)
		if err != nil {
			return nil, fmt.Errorf("failed to search names: %w", err)
		}
		for rows.Next() {
			var (
				id      AuthorityCode
				catSlug string
			)
			if err := rows.Scan(&id.Authority, &id.Code, &catSlug); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan name row: %w", err)
			}
			cat, err := object.ParseCategory(catSlug)
			if err != nil || !matchesAny(cat, categories) || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, err
		}
		_ = rows.Close()
	}
	return ids, nil
}

func matchesAny(c object.Category, filters []object.Category) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if c.Matches(f) {
			return true
		}
	}
	return false
}

// AuthorityCodes lists the codes registered under a category, in registry
// order. The generic filters expand to their refinements.
func (f *Factory) AuthorityCodes(category object.Category, includeDeprecated bool) ([]string, error) {
	if category == object.CategoryUnitOfMeasure {
		return f.unitCodes(includeDeprecated)
	}
	slugs := categorySlugs(category)
	if len(slugs) == 0 {
		return nil, fmt.Errorf("%w: no category matches %v", ErrLookup, category)
	}
	query := `SELECT code FROM object WHERE category IN (` + placeholders(len(slugs)) + `)`
	args := make([]any, 0, len(slugs)+2)
	for _, s := range slugs {
		args = append(args, s)
	}
	if f.authority != "" {
		query += ` AND auth_name = ? COLLATE NOCASE`
		args = append(args, f.authority)
	}
	if !includeDeprecated {
		query += ` AND deprecated = 0`
	}
	query += ` ORDER BY rowid`
	return f.scanCodes(query, args)
}

func (f *Factory) unitCodes(includeDeprecated bool) ([]string, error) {
	query := `SELECT code FROM unit_of_measure`
	var args []any
	var preds []string
	if f.authority != "" {
		preds = append(preds, `auth_name = ? COLLATE NOCASE`)
		args = append(args, f.authority)
	}
	if !includeDeprecated {
		preds = append(preds, `deprecated = 0`)
	}
	if len(preds) > 0 {
		query += ` WHERE ` + strings.Join(preds, ` AND `)
	}
	query += ` ORDER BY rowid`
	return f.scanCodes(query, args)
}

func (f *Factory) scanCodes(query string, args []any) ([]string, error) {
	rows, err := f.ctx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan code row: %w", err)
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// categorySlugs expands a category filter to the stored slugs it matches.
func categorySlugs(filter object.Category) []string {
	var out []string
	for _, c := range object.AllCategories() {
		if c.Matches(filter) {
			out = append(out, c.String())
		}
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// DescriptionText returns the stored remark for a code.
func (f *Factory) DescriptionText(code string) (string, error) {
	row, err := f.fetchRow(code)
	if err != nil {
		return "", err
	}
	return row.Description, nil
}

// AliasMatch identifies the object an alias points to.
type AliasMatch struct {
	Authority string
	Code      string
	Name      string
}

// OfficialNameFromAlias finds the object whose recorded alias is alias.
// Empty table or source match any recording. A miss is ok=false, not an
// error.
func (f *Factory) OfficialNameFromAlias(alias, table, source string) (AliasMatch, bool, error) {
	query := `SELECT o.auth_name, o.code, o.name FROM alias_name a
		JOIN object o ON o.auth_name = a.auth_name AND o.code = a.code
		WHERE a.alt_name = ? COLLATE NOCASE`
	args := []any{alias}
	if table != "" {
		query += ` AND a.table_name = ?`
		args = append(args, table)
	}
	if source != "" {
		query += ` AND a.source = ?`
		args = append(args, source)
	}
	if f.authority != "" {
		query += ` AND o.auth_name = ? COLLATE NOCASE`
		args = append(args, f.authority)
	}
	query += ` ORDER BY a.rowid LIMIT 1`

	var m AliasMatch
	err := f.ctx.db.QueryRow(query, args...).Scan(&m.Authority, &m.Code, &m.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return AliasMatch{}, false, nil
	}
	if err != nil {
		return AliasMatch{}, false, fmt.Errorf("failed to resolve alias: %w", err)
	}
	return m, true, nil
}
