package alogger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
filters:
  - name: noisy
    type: module_name
    mode: exclude
    modules: [chatty]
  - name: bogus
    type: not_a_real_type

savers:
  - name: audit
    level: debug
    file: ` + "${TMPFILE}" + `
    filters: [noisy]
  - name: broken
    file: ""
`

func TestLoadConfigParsesDocument(t *testing.T) {
	doc, err := LoadConfig(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Len(t, doc.Filters, 2)
	require.Len(t, doc.Savers, 2)
	assert.Equal(t, "noisy", doc.Filters[0].Name)
	assert.Equal(t, "module_name", doc.Filters[0].Type)
	assert.Equal(t, "exclude", doc.Filters[0].Mode)
}

func TestApplySkipsMalformedEntriesAndReportsThem(t *testing.T) {
	path := t.TempDir() + "/audit.log"
	docYAML := strings.ReplaceAll(sampleDoc, "${TMPFILE}", path)

	doc, err := LoadConfig(strings.NewReader(docYAML))
	require.NoError(t, err)

	l := New()
	defer l.Stop()

	errs := Apply(l, doc)
	require.Len(t, errs, 2, "expect one error for the bad filter type and one for the saver with no file")

	sink := l.FindSink("audit")
	require.NotNil(t, sink)
	assert.Equal(t, Debug, sink.Level())

	assert.Nil(t, l.FindSink("broken"))
}

func TestSaverWithoutLevelDefaultsToInfo(t *testing.T) {
	path := t.TempDir() + "/plain.log"
	docYAML := `
savers:
  - name: plain
    file: ` + path + `
`
	doc, err := LoadConfig(strings.NewReader(docYAML))
	require.NoError(t, err)

	l := New()
	defer l.Stop()

	errs := Apply(l, doc)
	require.Empty(t, errs)

	sink := l.FindSink("plain")
	require.NotNil(t, sink)
	assert.Equal(t, Info, sink.Level())
}

func TestExpandPathHomeTilde(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("USERPROFILE", "")
	assert.Equal(t, "/home/tester/logs/app.log", expandPath("~/logs/app.log"))
}

func TestExpandPathLeavesOrdinaryPathsAlone(t *testing.T) {
	assert.Equal(t, "/var/log/app.log", expandPath("/var/log/app.log"))
}
