package ui

import (
	"encoding/json"
	"net/http"

	"goviz/domain/chart"
	"goviz/internal/errors"
)

// demoRequests is one showcase request per chart kind over the student
// sample table.
var demoRequests = map[chart.Kind]chart.Request{
	chart.KindBar: {
		Kind: chart.KindBar, XColumn: "subject", YColumn: "grade",
		Title: "Average grade by subject",
	},
	chart.KindLine: {
		Kind: chart.KindLine, XColumn: "entry_year", YColumn: "grade", ColorColumn: "course",
		Title: "Grades by entry year",
	},
	chart.KindScatter: {
		Kind: chart.KindScatter, XColumn: "attendance", YColumn: "grade", ColorColumn: "scholarship",
		Title: "Attendance against grade",
	},
	chart.KindHistogram: {
		Kind: chart.KindHistogram, XColumn: "grade",
		Title: "Grade distribution",
	},
	chart.KindBox: {
		Kind: chart.KindBox, XColumn: "course", YColumn: "grade",
		Title: "Grades by course",
	},
	chart.KindHeatmap: {
		Kind: chart.KindHeatmap, XColumn: "subject", YColumn: "course", ColorColumn: "grade",
		Title: "Average grade by subject and course",
	},
	chart.KindPie: {
		Kind: chart.KindPie, XColumn: "course",
		Title: "Rows per course",
	},
}

// handleDemo answers with a map of kind to chart spec. ?kind= narrows the
// answer to one kind.
func (a *App) handleDemo(w http.ResponseWriter, r *http.Request) {
	specs := make(map[chart.Kind]chart.Spec)
	if kind := chart.Kind(r.URL.Query().Get("kind")); kind != "" {
		req, ok := demoRequests[kind]
		if !ok {
			a.writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "unknown chart kind " + string(kind),
				"code":  errors.CodeInvalidInput,
			})
			return
		}
		specs[kind] = a.builder.Build(a.sample, req)
	} else {
		for _, kind := range chart.Kinds {
			specs[kind] = a.builder.Build(a.sample, demoRequests[kind])
		}
	}
	a.writeJSON(w, http.StatusOK, specs)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("Failed to encode response: %v", err)
	}
}
