package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	for _, mm := range samples {
		pt := mm * MmToPt
		back := pt * PtToMm
		if diff := math.Abs(back - mm); diff > 1e-9 {
			t.Fatalf("mm→pt→mm 往返误差过大: in=%gmm pt=%g back=%g diff=%g", mm, pt, back, diff)
		}
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthToConversions(t *testing.T) {
	in := Length{Value: 1, Unit: UnitIN}
	if got := in.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
	if got := in.ToPT(); got != 72 {
		t.Fatalf("1in 转 pt 期望 72，实际 %g", got)
	}
	cm := Length{Value: 2.54, Unit: UnitCM}
	if got := cm.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	bare := Length{Value: 12}
	if got := bare.ToPT(); got != 12 {
		t.Fatalf("裸数字按 pt 处理，期望 12，实际 %g", got)
	}
	mm := Length{Value: 10, Unit: UnitMM}
	if got := mm.ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 转 pt 期望 %g，实际 %g", 10*MmToPt, got)
	}
}

// TestParseLength 验证带单位与不带单位的长度字面量。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"50", Length{Value: 50, Unit: UnitNone}},
		{"50pt", Length{Value: 50, Unit: UnitPT}},
		{" 18mm ", Length{Value: 18, Unit: UnitMM}},
		{"1.5cm", Length{Value: 1.5, Unit: UnitCM}},
		{"1IN", Length{Value: 1, Unit: UnitIN}},
	}
	for _, tc := range cases {
		got, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %+v, got %+v", tc.in, tc.want, got)
		}
	}
	for _, bad := range []string{"", "wide", "12px", "mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
	if pt, err := ParsePoints("1in"); err != nil || pt != 72 {
		t.Fatalf("ParsePoints(1in) = %g, %v", pt, err)
	}
	if UnitToString(UnitMM) != "mm" || UnitToString(UnitNone) != "" {
		t.Fatalf("unexpected unit names")
	}
}
