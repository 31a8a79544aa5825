package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/roster/dsl"
)

const sampleDSL = `
export Students v1 {
  meta {
    title: "Student Information - ${records} records"
    keywords: [
      "students"
      "internal"
    ]
  }

  # 页面几何
  page A4 landscape {
    margin-left: 50
    margin-top: 20mm
    table-width: 500pt
  }

  table {
    placeholder: "-"
    column "Name" weight 190 { field: name }
    column "Age" weight 40
    column "Guardian" weight 200 {
      field: guardian.name
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Students" {
		t.Fatalf("expected job name Students, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,page,table" {
		t.Fatalf("unexpected section order: %v", kinds)
	}

	meta := doc.Sections[0].Meta
	assigns := meta.Block.Assignments()
	if len(assigns) != 2 {
		t.Fatalf("expected 2 meta assignments, got %d", len(assigns))
	}
	if assigns[0].Key != "title" || !strings.Contains(assigns[0].Value.Text(), "${records}") {
		t.Fatalf("unexpected title assignment: %+v", assigns[0])
	}
	if got := assigns[1].Value.Strings(); len(got) != 2 || got[0] != "students" {
		t.Fatalf("unexpected keywords: %v", got)
	}

	page := doc.Sections[1].Page
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if len(page.Spec.Params) != 1 || page.Spec.Params[0].Value != "landscape" {
		t.Fatalf("unexpected page params: %+v", page.Spec.Params)
	}
	pageAssigns := page.Block.Assignments()
	if len(pageAssigns) != 3 {
		t.Fatalf("expected 3 page assignments, got %d", len(pageAssigns))
	}
	if pageAssigns[1].Key != "margin-top" || pageAssigns[1].Value.Text() != "20mm" {
		t.Fatalf("unexpected margin-top: %+v", pageAssigns[1])
	}

	table := doc.Sections[2].Table
	columns := table.Block.Commands("column")
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(columns))
	}
	first := columns[0]
	if len(first.Args) != 3 || first.Args[0].Value != "Name" || first.Args[2].Value != "190" {
		t.Fatalf("unexpected column args: %+v", first.Args)
	}
	if first.Args[0].Type != "String" {
		t.Fatalf("header arg should be a string token, got %s", first.Args[0].Type)
	}
	if columns[1].Block != nil {
		t.Fatalf("column without body should have nil block")
	}

	guardian := columns[2].Block.Assignments()
	if len(guardian) != 1 || guardian[0].Value.Expr == nil {
		t.Fatalf("field assignment should capture expression, got %+v", guardian)
	}
	if got := tokensToString(guardian[0].Value.Expr.Parts); got != "guardian . name" {
		t.Fatalf("unexpected expression tokens: %s", got)
	}
	if got := guardian[0].Value.Text(); got != "guardian.name" {
		t.Fatalf("expected dotted path, got %s", got)
	}

	tableAssigns := table.Block.Assignments()
	if len(tableAssigns) != 1 || tableAssigns[0].Value.Text() != "-" {
		t.Fatalf("unexpected table assignments: %+v", tableAssigns)
	}
}

func TestParseRejectsUnknownRoot(t *testing.T) {
	if _, err := dsl.ParseString(`doc Report v1 { }`); err == nil {
		t.Fatalf("expected error for non-export root")
	}
}

func TestParseEmptyJob(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader("export Empty v2 {\n}\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(doc.Sections))
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
