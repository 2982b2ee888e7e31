package solvelog

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"krysolve/itparam"
)

func newCapturingPrinter(lvl itparam.PrintLevel) (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(lvl, log.New(&buf, "", 0)), &buf
}

func TestBannerGatedOnSome(t *testing.T) {
	p, buf := newCapturingPrinter(itparam.PrintMin)
	p.Banner(itparam.CG)
	if buf.Len() != 0 {
		t.Fatalf("Banner at PrintMin wrote output: %q", buf.String())
	}

	p, buf = newCapturingPrinter(itparam.PrintSome)
	p.Banner(itparam.CG)
	if !strings.Contains(buf.String(), "CG") {
		t.Fatalf("Banner at PrintSome missing solver kind, got %q", buf.String())
	}
}

func TestIterationGatedOnMore(t *testing.T) {
	p, buf := newCapturingPrinter(itparam.PrintSome)
	p.Iteration(3, 1e-4)
	if buf.Len() != 0 {
		t.Fatalf("Iteration at PrintSome wrote output: %q", buf.String())
	}

	p, buf = newCapturingPrinter(itparam.PrintMore)
	p.Iteration(3, 1e-4)
	if !strings.Contains(buf.String(), "iter    3") {
		t.Fatalf("Iteration at PrintMore missing iter count, got %q", buf.String())
	}
}

func TestRestartCycleGatedOnSome(t *testing.T) {
	p, buf := newCapturingPrinter(itparam.PrintMin)
	p.RestartCycle(2, 10, 1e-3)
	if buf.Len() != 0 {
		t.Fatalf("RestartCycle at PrintMin wrote output: %q", buf.String())
	}

	p, buf = newCapturingPrinter(itparam.PrintSome)
	p.RestartCycle(2, 10, 1e-3)
	if !strings.Contains(buf.String(), "restart cycle 2") {
		t.Fatalf("RestartCycle at PrintSome missing cycle number, got %q", buf.String())
	}
}

func TestNoticeGatedOnSome(t *testing.T) {
	p, buf := newCapturingPrinter(itparam.PrintMin)
	p.Notice("false convergence at iter %d", 7)
	if buf.Len() != 0 {
		t.Fatalf("Notice at PrintMin wrote output: %q", buf.String())
	}

	p, buf = newCapturingPrinter(itparam.PrintSome)
	p.Notice("false convergence at iter %d", 7)
	if !strings.Contains(buf.String(), "notice: false convergence at iter 7") {
		t.Fatalf("Notice at PrintSome missing formatted message, got %q", buf.String())
	}
}

func TestSummaryGatedOnMin(t *testing.T) {
	p, buf := newCapturingPrinter(itparam.PrintNone)
	p.Summary(Summary{Kind: itparam.CG, Iter: 5, Residual: 1e-8, Elapsed: time.Millisecond})
	if buf.Len() != 0 {
		t.Fatalf("Summary at PrintNone wrote output: %q", buf.String())
	}

	p, buf = newCapturingPrinter(itparam.PrintMin)
	p.Summary(Summary{Kind: itparam.CG, Iter: 5, Residual: 1e-8, Elapsed: time.Millisecond})
	if !strings.Contains(buf.String(), "iter=5") {
		t.Fatalf("Summary at PrintMin missing iter count, got %q", buf.String())
	}
}

func TestNilPrinterIsSafe(t *testing.T) {
	var p *Printer
	p.Banner(itparam.CG)
	p.Iteration(1, 0.1)
	p.RestartCycle(1, 10, 0.1)
	p.Notice("unreachable: %d", 1)
	p.Summary(Summary{Kind: itparam.CG})
}
