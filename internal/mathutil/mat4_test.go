package mathutil

import "testing"

func TestMat4ScaleTranslateMatchesProduct(t *testing.T) {
	tr := Vec3{3, -2, 0.5}
	got := Mat4ScaleTranslate(2, 4, 8, tr)
	want := Mat4Mul(Mat4Translate(tr), Mat4Scale(2, 4, 8))
	if got != want {
		t.Fatalf("Mat4ScaleTranslate = %v, want %v", got, want)
	}
}

func TestMat4MulVec4(t *testing.T) {
	m := Mat4ScaleTranslate(2, 2, 2, Vec3{1, 1, 0})
	got := m.MulVec4(Vec3{1, 2, 3}.Point())
	want := Vec4{3, 5, 6, 1}
	if got != want {
		t.Errorf("MulVec4 = %v, want %v", got, want)
	}
}

func TestMat4IdentityMul(t *testing.T) {
	m := Mat4ScaleTranslate(0.5, -1, 3, Vec3{7, 8, 9})
	if got := Mat4Mul(Mat4Identity(), m); got != m {
		t.Errorf("I × M = %v, want %v", got, m)
	}
	if !Mat4Mul(Mat4Scale(2, 2, 2), Mat4Scale(0.5, 0.5, 0.5)).IsIdentity() {
		t.Error("Scale(2) × Scale(0.5) should be identity")
	}
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", Vec3{0, 0, -5}, Vec3{0, 0, -1}},
		{"zero", Vec3{}, Vec3{}},
		{"unit", Vec3{1, 0, 0}, Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMinMax3(t *testing.T) {
	if got := Min3(3, -1, 2); got != -1 {
		t.Errorf("Min3 = %v, want -1", got)
	}
	if got := Max3(3, -1, 7); got != 7 {
		t.Errorf("Max3 = %v, want 7", got)
	}
}
