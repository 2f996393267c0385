package output

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	p.Header("Accounts")
	p.Line("%d rows", 3)
	p.Success("done")
	p.Warning("careful")
	p.Error("broken")

	assert.Equal(t, "Accounts\n========\n3 rows\n  → done\n  ⚠ careful\nError: broken\n", buf.String())
	assert.Equal(t, &buf, p.Writer())
}

func TestAmountPlain(t *testing.T) {
	p := New(&bytes.Buffer{}, false)
	assert.Equal(t, "-3.50", p.Amount("-3.50", decimal.RequireFromString("-3.5")))
	assert.Equal(t, "3.50", p.Amount("3.50", decimal.RequireFromString("3.5")))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "Food", Indent("Food", 0))
	assert.Equal(t, "    Groceries", Indent("Groceries", 2))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=1")
}
