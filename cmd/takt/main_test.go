package main

import (
	"strings"
	"testing"
)

const cycleHeader = "operator_name,work_center,routing,mo_number,mo_quantity,duration_seconds,operation,state\n"

func TestCLIImportAndUPH(t *testing.T) {
	env := setupCLITestEnv(t)

	csv := cycleHeader +
		"Jane Doe,Sewing,R1,MO1,50,1800,Seam,done\n" +
		"Jane Doe,Sewing,R1,MO1,50,1800,Hem,done\n" +
		"Bob Ray,Cutting,R2,MO2,30,3600,,done\n"
	path := writeCSV(t, env.baseDir, csv)

	out, _, err := runCLI(t, env.configPath, "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Read 3 rows (3 imported, 0 skipped)")
	requireContains(t, out, "summaries stored:  2")

	out, _, err = runCLI(t, env.configPath, "uph")
	if err != nil {
		t.Fatalf("uph: %v", err)
	}
	requireContains(t, out, "Jane Doe")
	requireContains(t, out, "Assembly")
	requireContains(t, out, "50.00")
	requireContains(t, out, "Bob Ray")
	requireContains(t, out, "Cutting")

	out, _, err = runCLI(t, env.configPath, "uph", "--operator", "Bob Ray", "--json")
	if err != nil {
		t.Fatalf("uph --json: %v", err)
	}
	requireContains(t, out, `"operator": "Bob Ray"`)
	if strings.Contains(out, "Jane Doe") {
		t.Fatalf("expected operator filter to exclude Jane Doe, got:\n%s", out)
	}
}

func TestCLIRunsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	csv := cycleHeader + "Jane Doe,Sewing,R1,MO1,50,1800,,done\n"
	path := writeCSV(t, env.baseDir, csv)

	if _, _, err := runCLI(t, env.configPath, "import", path); err != nil {
		t.Fatalf("import: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "csv")
	requireContains(t, out, "completed")
}

func TestCLIUPHWithoutData(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "uph")
	if err != nil {
		t.Fatalf("uph: %v", err)
	}
	requireContains(t, out, "No UPH summaries stored")
}

func TestCLIStatusWithoutDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "not running")
}
