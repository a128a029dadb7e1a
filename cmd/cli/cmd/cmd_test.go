package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-cost/core/catalog"
	"rag-cost/core/output"
	"rag-cost/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--no-color", "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := root.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, args ...string) output.Document {
	t.Helper()
	out, err := run(t, append(args, "--format", "json")...)
	require.NoError(t, err)

	var doc output.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func TestEstimateCommand(t *testing.T) {
	doc := runJSON(t, "estimate", "--group", "OpenAI", "--id", "gpt-4.1")
	require.Len(t, doc.Results, 1)
	assert.Equal(t, "$106.80", doc.Results[0].MonthlyCost)
	assert.Equal(t, "builtin", doc.Metadata.Catalog)

	out, err := run(t, "estimate", "-g", "OpenAI", "--id", "gpt-4.1", "--cache", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "$73.05")
	assert.Contains(t, out, "Cache hit: 50%")
}

func TestEstimateCommandErrors(t *testing.T) {
	_, err := run(t, "estimate", "--group", "OpenAI")
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = run(t, "estimate", "--group", "OpenAI", "--id", "gpt-9")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	_, err = run(t, "estimate", "--group", "OpenAI", "--id", "gpt-4.1", "--cache", "2")
	assert.True(t, errors.IsType(err, errors.TypeInvalidProfile))

	_, err = run(t, "estimate", "--group", "OpenAI", "--id", "gpt-4.1", "--format", "html")
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestEstimateUsesConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rag-cost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  queries_per_day: 200\n"), 0644))

	doc := runJSON(t, "--config", path, "estimate", "--group", "OpenAI", "--id", "gpt-4.1")
	assert.Equal(t, "$213.60", doc.Results[0].MonthlyCost)

	doc = runJSON(t, "--config", path, "estimate", "--group", "OpenAI", "--id", "gpt-4.1", "--queries", "100")
	assert.Equal(t, "$106.80", doc.Results[0].MonthlyCost, "flags win over config")
}

func TestRankCommand(t *testing.T) {
	doc := runJSON(t, "rank", "--provider", "OpenAI", "--top", "3")
	require.Len(t, doc.Results, 3)
	assert.Equal(t, "gpt-4.1-nano", doc.Results[0].ID)
	assert.Equal(t, "OpenAI", doc.Metadata.Filter.Provider)

	doc = runJSON(t, "rank", "--kind", "compute", "--region", "eu-west-1", "--queries", "1", "--input", "24", "--output", "0", "--top", "1")
	require.Len(t, doc.Results, 1)
	assert.Equal(t, "t4g.micro.eu-west-1", doc.Results[0].ID)
	assert.Equal(t, "$6.05", doc.Results[0].MonthlyCost)

	_, err := run(t, "rank", "--where", "entry.id")
	assert.True(t, errors.IsType(err, errors.TypeInvalidFilter))
}

func TestRankCommandMarkdown(t *testing.T) {
	out, err := run(t, "rank", "--provider", "Anthropic", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## Cost ranking")
	assert.Contains(t, out, "| 1 | Anthropic | Claude 3.5 Haiku |")
}

func TestCorpusCommand(t *testing.T) {
	doc := runJSON(t, "corpus", "--pages", "700")
	require.NotNil(t, doc.Corpus)
	assert.Equal(t, int64(1000), doc.Corpus.Chunks)
	assert.Equal(t, "$4.00", doc.Results[0].AnnualCost)
	assert.Len(t, doc.Assumptions, 3)

	_, err := run(t, "corpus", "--pages", "10", "--group", "OpenAI", "--id", "gpt-4.1")
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestCatalogValidateCommand(t *testing.T) {
	out, err := run(t, "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "builtin: 51 entries in 8 groups are valid")

	out, err = run(t, "catalog", "validate", filepath.Join("..", "..", "..", "core", "catalog", "testdata", "mini.hcl"))
	require.NoError(t, err)
	assert.Contains(t, out, "3 entries in 2 groups are valid")

	out, err = run(t, "catalog", "validate", filepath.Join("..", "..", "..", "core", "catalog", "testdata", "broken.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInvalidCatalog))
	assert.Contains(t, out, "Broken/twin")
	assert.Contains(t, err.Error(), "5 problems")
}

func TestCatalogListCommand(t *testing.T) {
	out, err := run(t, "catalog", "list", "--kind", "vector")
	require.NoError(t, err)
	assert.Contains(t, out, "dsu-768")
	assert.Contains(t, out, "1M DSU-year")
	assert.Contains(t, out, "1 of 51 entries")
	assert.NotContains(t, out, "gpt-4.1")
}

func TestCatalogSchemaAndExport(t *testing.T) {
	out, err := run(t, "catalog", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "rag-cost price catalog")

	out, err = run(t, "catalog", "export", "--as", "toml")
	require.NoError(t, err)

	c, err := catalog.Parse(catalog.FormatTOML, []byte(out), "export.toml")
	require.NoError(t, err)
	assert.Equal(t, 51, c.Len())

	_, err = run(t, "catalog", "export", "--as", "hcl")
	assert.Error(t, err)
}

func TestExternalCatalogFlag(t *testing.T) {
	doc := runJSON(t, "--catalog", filepath.Join("..", "..", "..", "core", "catalog", "testdata", "mini.yaml"), "rank")
	assert.Len(t, doc.Results, 3)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rag-cost version "+Version+"\n", out)
}

func TestCompareCommand(t *testing.T) {
	out, err := run(t, "compare", "--group", "OpenAI", "--id", "gpt-4.1", "--against-cache", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "GPT-4.1 vs GPT-4.1 @ 50% cache")
	assert.Contains(t, out, "-$33.75")
	assert.Contains(t, out, "+$11.25")
	assert.Contains(t, out, "saves $33.75/month (31.6%)")

	out, err = run(t, "compare", "-g", "OpenAI", "--id", "gpt-4.1-mini", "--against-id", "gpt-4.1", "--format", "json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, "gpt-4.1-mini", result["before"])
	assert.Equal(t, "gpt-4.1", result["after"])
	assert.Equal(t, "85.44", result["total_delta"])
	assert.Equal(t, "increase", result["change"])
}

func TestCompareCommandErrors(t *testing.T) {
	_, err := run(t, "compare", "--group", "OpenAI", "--id", "gpt-4.1")
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = run(t, "compare", "--group", "OpenAI", "--id", "gpt-4.1", "--against-id", "gpt-9")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	_, err = run(t, "compare", "--group", "OpenAI", "--id", "gpt-4.1", "--against-cache", "1.5")
	assert.True(t, errors.IsType(err, errors.TypeInvalidProfile))
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rag-cost.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = run(t, "config", "init", path)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	out, err = run(t, "--config", path, "--format", "markdown", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_format: markdown")
	assert.Contains(t, out, "queries_per_day: 100")
}

func TestVerboseAddsDetailLines(t *testing.T) {
	out, err := run(t, "catalog", "list", "-p", "EC2-GPU")
	require.NoError(t, err)
	assert.NotContains(t, out, "H100 GPUs")

	out, err = run(t, "--verbose", "catalog", "list", "-p", "EC2-GPU")
	require.NoError(t, err)
	assert.Contains(t, out, "EC2-GPU/p5.48xlarge.eu-west-1: H100 GPUs")

	out, err = run(t, "--verbose", "compare", "-g", "OpenAI", "--id", "gpt-4.1", "--against-cache", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "before: 45,000,000 input, 2,100,000 output units per month")
}

func TestBuilderProfileFlags(t *testing.T) {
	doc := runJSON(t, "estimate", "--group", "EC2-GPU", "--id", "p5.48xlarge.eu-west-1", "--instances", "2")
	require.Len(t, doc.Results, 1)
	assert.Equal(t, "$93,556.80", doc.Results[0].MonthlyCost)

	doc = runJSON(t, "rank", "--kind", "compute", "--region", "eu-west-1", "--instances", "1", "--top", "1")
	require.Len(t, doc.Results, 1)
	assert.Equal(t, "$6.13", doc.Results[0].MonthlyCost)

	doc = runJSON(t, "estimate", "--group", "S3", "--id", "standard-ia.eu-west-2", "--gb", "5000")
	assert.Equal(t, "$65.50", doc.Results[0].MonthlyCost)

	_, err := run(t, "estimate", "--group", "S3", "--id", "standard.eu-west-1", "--gb", "1", "--instances", "1")
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = run(t, "estimate", "--group", "S3", "--id", "standard.eu-west-1", "--gb", "1", "--queries", "5")
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = run(t, "estimate", "--group", "EC2-CPU", "--id", "t3.micro.eu-west-1", "--instances", "-1")
	assert.True(t, errors.IsType(err, errors.TypeInvalidProfile))
}

func TestBillCommand(t *testing.T) {
	out, err := run(t, "bill", "--region", "eu-west-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Starter bill for eu-west-2")
	assert.Contains(t, out, "$278.50")
	assert.Contains(t, out, "Total: $71,619.79/month")

	out, err = run(t, "bill", "--format", "json",
		"--line", "EC2-GPU/p5.48xlarge.eu-west-1=2",
		"--line", "S3/standard.eu-west-1=100")
	require.NoError(t, err)

	var b map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &b), out)
	assert.Equal(t, "93559.1", b["total"])
	assert.Len(t, b["groups"], 2)
}

func TestBillCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "infra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- {group: OpenSearch, id: m6g.large.search.eu-west-1, quantity: 3}\n"), 0644))

	out, err := run(t, "bill", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 instances")
	assert.Contains(t, out, "$326.31")

	require.NoError(t, os.WriteFile(path, []byte("- {group: OpenSearch, id: x, qty: 3}\n"), 0644))
	_, err = run(t, "bill", "--file", path)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestBillCommandErrors(t *testing.T) {
	_, err := run(t, "bill", "--line", "EC2-GPU/p5.48xlarge.eu-west-1")
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = run(t, "bill", "--line", "OpenAI/gpt-4.1=3")
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = run(t, "bill", "--region", "us-east-1")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}
