package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"cnext.dev/pkg/sema/internal/adapter"
	"cnext.dev/pkg/sema/internal/controller"
	m "cnext.dev/pkg/sema/internal/model"
	"cnext.dev/pkg/sema/pkg"
)

// AnalyzeArgs configures a full analysis run.
type AnalyzeArgs struct {
	Paths        []m.Path
	Exclude      []string
	Recursive    bool
	Output       m.Path
	MaxValueBits int
	Threads      int
}

// SymbolsArgs configures a registry listing without the analysis passes.
type SymbolsArgs struct {
	Paths     []m.Path
	Exclude   []string
	Recursive bool
	Threads   int
}

// ViewArgs names a previously saved report.
type ViewArgs struct {
	Report m.Path
}

// DiffArgs names two reports to compare for calling-convention drift.
type DiffArgs struct {
	Before m.Path
	After  m.Path
}

// Workflow is the use-case surface the CLI commands call into.
type Workflow interface {
	Analyze(ctx context.Context, args AnalyzeArgs) (m.Report, error)
	Symbols(ctx context.Context, args SymbolsArgs) error
	View(args ViewArgs) error
	Diff(args DiffArgs) error
}

type workflow struct {
	adapter.UnitFSAdapter
	adapter.UnitDecoder
	adapter.ReportStore
	controller.UI
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.UnitFSAdapter,
	decoder adapter.UnitDecoder,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		UnitFSAdapter: fsAdapter,
		UnitDecoder:   decoder,
		ReportStore:   reportStore,
		UI:            ui,
	}
}

// Analyze loads every compilation unit under the given paths, populates the
// registry, runs the resolver and the mutation analyzer, persists the report
// and displays it.
func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) (m.Report, error) {
	reg, files, err := w.populatedRegistry(ctx, args.Paths, args.Exclude, args.Recursive, args.Threads)
	if err != nil {
		return m.Report{}, err
	}

	resolver, err := NewResolver(reg)
	if err != nil {
		return m.Report{}, err
	}

	analyzer, err := NewMutationAnalyzer(reg, args.MaxValueBits)
	if err != nil {
		return m.Report{}, err
	}

	analyzer.Run()

	report := buildReport(reg, resolver, analyzer, files)

	w.logDecisionSummary(report)

	path, err := w.Save(args.Output, report)
	if err != nil {
		slog.Error("Failed to save report", "output", args.Output, "error", err)
		return m.Report{}, fmt.Errorf("save report: %w", err)
	}

	slog.Info("Report written", "path", path, "units", len(report.Units), "functions", len(report.Functions))

	if err := w.DisplayReport(report); err != nil {
		return m.Report{}, fmt.Errorf("display: %w", err)
	}

	return report, nil
}

// Symbols populates the registry and lists every registered symbol without
// running the analysis passes.
func (w *workflow) Symbols(ctx context.Context, args SymbolsArgs) error {
	reg, _, err := w.populatedRegistry(ctx, args.Paths, args.Exclude, args.Recursive, args.Threads)
	if err != nil {
		return err
	}

	if err := w.DisplaySymbols(symbolEntries(reg)); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// View loads a saved report and displays it.
func (w *workflow) View(args ViewArgs) error {
	report, err := w.Load(args.Report)
	if err != nil {
		return err
	}

	if err := w.DisplayReport(report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// Diff compares two saved reports line by line. Parameter decisions are
// rendered canonically first, so the diff shows exactly the calling
// conventions that changed between runs.
func (w *workflow) Diff(args DiffArgs) error {
	before, err := w.Load(args.Before)
	if err != nil {
		return err
	}

	after, err := w.Load(args.After)
	if err != nil {
		return err
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        append(before.CanonicalLines(), ""),
		B:        append(after.CanonicalLines(), ""),
		FromFile: string(args.Before),
		ToFile:   string(args.After),
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("diff reports: %w", err)
	}

	if err := w.DisplayDiff(unified); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) populatedRegistry(ctx context.Context, paths []m.Path, exclude []string, recursive bool, threads int) (*Registry, []m.UnitFile, error) {
	files, err := w.collectUnitFiles(paths, exclude, recursive)
	if err != nil {
		return nil, nil, err
	}

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no %s files found under %v", adapter.UnitExt, paths)
	}

	units, err := w.decodeUnits(ctx, files, threads)
	if err != nil {
		return nil, nil, err
	}

	reg := NewRegistry()
	if err := reg.Populate(units); err != nil {
		return nil, nil, err
	}

	return reg, files, nil
}

// collectUnitFiles walks every root, filters for unit files and returns them
// in a stable path order so decode results and reports are deterministic.
func (w *workflow) collectUnitFiles(paths []m.Path, exclude []string, recursive bool) ([]m.UnitFile, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	seen := map[string]bool{}

	var files []m.UnitFile

	for _, root := range paths {
		err := w.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || !adapter.IsUnitFile(path) || seen[path] {
				return nil
			}

			for _, re := range patterns {
				if re.MatchString(path) {
					slog.Debug("Excluded unit file", "path", path, "pattern", re.String())
					return nil
				}
			}

			hash, err := w.HashFile(m.Path(path))
			if err != nil {
				return fmt.Errorf("hash %s: %w", path, err)
			}

			seen[path] = true
			files = append(files, m.UnitFile{Path: m.Path(path), Hash: hash})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return files, nil
}

// decodeUnits parses unit files concurrently while keeping the result slice
// aligned with the input order.
func (w *workflow) decodeUnits(ctx context.Context, files []m.UnitFile, threads int) ([]m.Unit, error) {
	if threads < 1 {
		threads = 1
	}

	units := make([]m.Unit, len(files))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, file := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src, err := w.ReadFile(file.Path)
			if err != nil {
				return fmt.Errorf("read %s: %w", file.Path, err)
			}

			unit, err := w.Decode(file.Path, src)
			if err != nil {
				return err
			}

			units[i] = unit

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return units, nil
}

func buildReport(reg *Registry, resolver *Resolver, analyzer *MutationAnalyzer, files []m.UnitFile) m.Report {
	report := m.Report{MaxValueBits: analyzer.MaxValueBits()}

	for _, f := range files {
		report.Units = append(report.Units, string(f.Path))
	}

	qual := QualifiedNameGenerator{}

	for _, fn := range reg.Functions() {
		fr := m.FunctionReport{
			Qualified:  qual.ForFunction(fn),
			Scope:      fn.Scope.DottedPath(),
			Name:       fn.Name,
			Visibility: fn.Visibility,
		}

		for i, p := range fn.Parameters {
			fr.Params = append(fr.Params, m.ParamDecision{
				Function:    fr.Qualified,
				Name:        p.Name,
				Type:        p.Type.String(),
				IsConst:     p.IsConst,
				Mutated:     analyzer.IsMutated(fn, i),
				PassByValue: analyzer.IsPassByValue(fn, i),
			})
		}

		fr.Rewrites = rewriteDecisions(reg, resolver, fn, fr.Qualified)

		report.Functions = append(report.Functions, fr)
	}

	return report
}

// rewriteDecisions walks one function body and records every identifier the
// resolver substitutes. Identifiers kept as spelled are not recorded.
func rewriteDecisions(reg *Registry, resolver *Resolver, fn *m.FunctionSymbol, qualified string) []m.RewriteDecision {
	if fn.Body == nil {
		return nil
	}

	locals := map[string]bool{}
	for _, p := range fn.Parameters {
		locals[p.Name] = true
	}

	m.Inspect(fn.Body, func(n m.Node) bool {
		if l, ok := n.(*m.LocalStmt); ok {
			locals[l.Name] = true
		}

		return true
	})

	var decisions []m.RewriteDecision

	// Bases of member accesses resolve through the scope namespace, never
	// as bare identifiers.
	memberBases := map[*m.Ident]bool{}

	m.Inspect(fn.Body, func(n m.Node) bool {
		switch e := n.(type) {
		case *m.MemberExpr:
			base, ok := e.Base.(*m.Ident)
			if !ok {
				return true
			}

			memberBases[base] = true

			if scopePath, ok := resolver.ResolveForMemberAccess(base.Name); ok && scopePath != base.Name {
				decisions = append(decisions, m.RewriteDecision{
					Function: qualified, Ident: base.Name, Rewritten: scopePath,
				})
			}

		case *m.Ident:
			if memberBases[e] {
				return true
			}

			kind, known := reg.NamedKind(e.Name)
			isStruct := known && kind == m.KindStruct

			if resolved, ok := resolver.ResolveBareIdentifier(fn.Scope, e.Name, locals[e.Name], isStruct); ok && resolved != e.Name {
				decisions = append(decisions, m.RewriteDecision{
					Function: qualified, Ident: e.Name, Rewritten: resolved,
				})
			}
		}

		return true
	})

	return decisions
}

// symbolEntries flattens the registry into display rows: scopes and their
// variables in lexical path order, then functions in registration order,
// then type-like names.
func symbolEntries(reg *Registry) []m.SymbolEntry {
	qual := QualifiedNameGenerator{}

	var entries []m.SymbolEntry

	for _, path := range reg.ScopePaths() {
		scope, _ := reg.ScopeAt(path)

		if !scope.IsGlobal() {
			entries = append(entries, m.SymbolEntry{
				Qualified: qual.ForScope(scope),
				Kind:      m.KindScope,
				Scope:     scope.Parent.DottedPath(),
				Detail:    fmt.Sprintf("%d function(s), %d variable(s)", len(scope.Functions), len(scope.Variables)),
			})
		}

		for _, v := range scope.Variables {
			entries = append(entries, m.SymbolEntry{
				Qualified: qual.ForVariable(v),
				Kind:      m.KindVariable,
				Scope:     v.Scope.DottedPath(),
				Detail:    v.Type.String(),
			})
		}
	}

	for _, fn := range reg.Functions() {
		entries = append(entries, m.SymbolEntry{
			Qualified: qual.ForFunction(fn),
			Kind:      m.KindFunction,
			Scope:     fn.Scope.DottedPath(),
			Detail:    fmt.Sprintf("%d param(s), returns %s", len(fn.Parameters), fn.ReturnType),
		})
	}

	for _, name := range reg.TypeNames() {
		kind, _ := reg.NamedKind(name)
		entries = append(entries, m.SymbolEntry{
			Qualified: name,
			Kind:      kind,
		})
	}

	return entries
}

// logDecisionSummary streams every parameter decision through a disk spill
// and logs aggregate counts. The spill keeps memory flat when analyzing
// large unit trees.
func (w *workflow) logDecisionSummary(report m.Report) {
	spill, err := pkg.NewFileSpill[m.ParamDecision]()
	if err != nil {
		slog.Warn("Decision spill unavailable", "error", err)
		return
	}

	defer func() {
		_ = spill.Close()
	}()

	for _, fn := range report.Functions {
		if err := spill.AppendBatch(fn.Params); err != nil {
			slog.Warn("Decision spill append failed", "error", err)
			return
		}
	}

	byValue := 0

	err = spill.Range(func(_ uint64, d m.ParamDecision) error {
		if d.PassByValue {
			byValue++
		}

		return nil
	})
	if err != nil {
		slog.Warn("Decision spill range failed", "error", err)
		return
	}

	slog.Info("Parameter decisions",
		"total", spill.Len(),
		"byValue", byValue,
		"byRef", spill.Len()-uint64(byValue),
	)
}
