package treeline

import (
	"context"
	"sort"

	"github.com/treeline-dev/treeline/internal/record"
)

// symbolRef identifies one export by owning module and name.
type symbolRef struct {
	module string
	name   string
}

// crossReference derives the gap list from the finished records. An
// export is referenced when a resolved import into its module names
// it; a whole-module import (no names) counts as referencing every
// export of its target, since the importer may reach any of them.
// Exports declared in test-classified files are not gap subjects.
func (a *Analysis) crossReference(ctx context.Context) []record.Gap {
	referenced := make(map[symbolRef]bool)
	testReferenced := make(map[symbolRef]bool)
	wholeImported := make(map[string]bool)
	testWholeImported := make(map[string]bool)
	isTestModule := make(map[string]bool)

	for _, rec := range a.Records {
		id, ok := a.files.ModuleID(rec.Path)
		if !ok {
			continue
		}
		isTest := a.classifier.IsTestFile(ctx, rec.Path)
		if isTest {
			isTestModule[id] = true
		}
		for _, imp := range rec.Imports {
			if imp.Resolution.State != record.ResolvedInternal {
				continue
			}
			target := imp.Resolution.Target
			if target == id {
				// Self-imports never count as references.
				continue
			}
			if len(imp.Names) == 0 {
				wholeImported[target] = true
				if isTest {
					testWholeImported[target] = true
				}
				continue
			}
			for _, name := range imp.Names {
				ref := symbolRef{module: target, name: name}
				referenced[ref] = true
				if isTest {
					testReferenced[ref] = true
				}
			}
		}
	}

	var gaps []record.Gap
	for _, rec := range a.Records {
		id, ok := a.files.ModuleID(rec.Path)
		if !ok || isTestModule[id] {
			continue
		}
		isEntry := a.classifier.IsEntryPoint(ctx, rec.Path, id)
		for _, exp := range rec.Exports {
			ref := symbolRef{module: id, name: exp.Name}
			if !isEntry && !referenced[ref] && !wholeImported[id] {
				gaps = append(gaps, record.Gap{Kind: record.GapDeadExport, Module: id, Export: exp.Name})
			}
			if !testReferenced[ref] && !testWholeImported[id] {
				gaps = append(gaps, record.Gap{Kind: record.GapUntestedExport, Module: id, Export: exp.Name})
			}
			if exp.Doc == "" && a.classifier.IsSurfaceKind(exp.Kind) {
				gaps = append(gaps, record.Gap{Kind: record.GapUndocumentedExport, Module: id, Export: exp.Name})
			}
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Module != gaps[j].Module {
			return gaps[i].Module < gaps[j].Module
		}
		if gaps[i].Export != gaps[j].Export {
			return gaps[i].Export < gaps[j].Export
		}
		return gaps[i].Kind < gaps[j].Kind
	})
	return gaps
}
