package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterStatusLines(t *testing.T) {
	tests := []struct {
		name   string
		print  func(p *Printer)
		want   string
		stderr bool
	}{
		{"success", func(p *Printer) { p.Success("Email sent") }, "✓ Email sent\n", false},
		{"error", func(p *Printer) { p.Error("Workflow failed") }, "✗ Workflow failed\n", true},
		{"warning", func(p *Printer) { p.Warning("Config file %s not found", "courier.yaml") }, "⚠ Config file courier.yaml not found\n", true},
		{"info", func(p *Printer) { p.Info("Sending to %d recipients", 2) }, "→ Sending to 2 recipients\n", false},
		{"step", func(p *Printer) { p.Step("Stage %d/%d", 1, 2) }, "▶ Stage 1/2\n", false},
		{"notice", func(p *Printer) { p.Notice("Dry run mode") }, "⏸ Dry run mode\n", false},
		{"detail", func(p *Printer) { p.Detail("To: %s", "team@example.com") }, "  To: team@example.com\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			tt.print(NewPrinterWithWriters(&out, &errOut, false))

			if tt.stderr {
				assert.Equal(t, tt.want, errOut.String())
				assert.Empty(t, out.String())
			} else {
				assert.Equal(t, tt.want, out.String())
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestPrinterColor(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinterWithWriters(&out, &errOut, true)

	p.Success("Email sent")
	p.Error("Workflow failed")
	p.Detail("Room: room-1")

	assert.Contains(t, out.String(), colorGreen+"✓ Email sent"+colorReset)
	assert.Contains(t, out.String(), colorGray+"  Room: room-1"+colorReset)
	assert.Contains(t, errOut.String(), colorRed+"✗ Workflow failed"+colorReset)
}

func TestPrinterPlain(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWithWriters(&out, nil, false)

	p.Print("Hello %s", "world")
	assert.Equal(t, "Hello world", out.String())

	out.Reset()
	p.Println("Hello", "world")
	assert.Equal(t, "Hello world\n", out.String())

	out.Reset()
	p.Error("falls back to out")
	assert.Equal(t, "✗ falls back to out\n", out.String())
}
