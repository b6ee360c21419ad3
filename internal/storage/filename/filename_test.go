package filename

import (
	"errors"
	"strings"
	"testing"
)

// TestSanitize проверяет замену символов вне [A-Za-z0-9.] на '_'.
func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"латиница и цифры", "photo123.jpg", "photo123.jpg"},
		{"пробелы и скобки", "Resume (v2).pdf", "Resume__v2_.pdf"},
		{"не-ASCII символы", "Özgeçmiş Dünya.pdf", "_zge_mi__D_nya.pdf"},
		{"кириллица", "отчёт.docx", "______.docx"},
		{"дефисы", "my-file-name.png", "my_file_name.png"},
		{"пустая строка", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.expected {
				t.Errorf("Sanitize(%q): ожидалось %q, получено %q", tt.input, tt.expected, got)
			}
		})
	}
}

// TestDerive проверяет пример из контракта политики именования.
func TestDerive(t *testing.T) {
	got := Derive("Özgeçmiş Dünya.pdf", "1700000000000-123")
	expected := "1700000000000-123-_zge_mi__D_nya.pdf"
	if got != expected {
		t.Errorf("ожидалось %q, получено %q", expected, got)
	}
}

// TestDerive_Deterministic проверяет детерминированность Derive.
func TestDerive_Deterministic(t *testing.T) {
	a := Derive("file name.jpg", "1700000000000-42")
	b := Derive("file name.jpg", "1700000000000-42")
	if a != b {
		t.Errorf("Derive не детерминирована: %q != %q", a, b)
	}
}

// TestSplit_RoundTrip проверяет, что Split возвращает префикс,
// переданный в Derive, включая имена с дефисами.
func TestSplit_RoundTrip(t *testing.T) {
	names := []string{"simple.pdf", "with-dash.jpg", "a-b-c-d.png", "Özgeçmiş Dünya.pdf"}
	prefix := "1700000000000-987654321"

	for _, name := range names {
		stored := Derive(name, prefix)
		gotPrefix, rest, err := Split(stored)
		if err != nil {
			t.Fatalf("Split(%q): неожиданная ошибка %v", stored, err)
		}
		if gotPrefix != prefix {
			t.Errorf("Split(%q): префикс %q, ожидался %q", stored, gotPrefix, prefix)
		}
		if rest != Sanitize(name) {
			t.Errorf("Split(%q): остаток %q, ожидался %q", stored, rest, Sanitize(name))
		}
	}
}

// TestSplit_Malformed проверяет ошибку при менее чем трёх сегментах.
func TestSplit_Malformed(t *testing.T) {
	for _, name := range []string{"", "noseparator", "two-segments"} {
		if _, _, err := Split(name); !errors.Is(err, ErrMalformed) {
			t.Errorf("Split(%q): ожидалась ErrMalformed, получено %v", name, err)
		}
	}
}

// TestIsManaged проверяет распознавание управляемых имён.
func TestIsManaged(t *testing.T) {
	tests := []struct {
		name    string
		managed bool
	}{
		{"1700000000000-42-Resume.pdf", true},
		{"1700000000000-42-Resume (v2).pdf", true}, // устаревшая санитизация, но префикс корректный
		{"1700000000000-42-a-b-c.png", true},
		{"170000000000-42-short-epoch.pdf", false}, // 12 цифр вместо 13
		{"logo.png", false},
		{"abc-def-ghi.txt", false},
		{".hidden-file-x", false},
	}

	for _, tt := range tests {
		if got := IsManaged(tt.name); got != tt.managed {
			t.Errorf("IsManaged(%q): ожидалось %v, получено %v", tt.name, tt.managed, got)
		}
	}
}

// TestCanonical проверяет пересчёт канонического имени для файла,
// названного по устаревшему правилу санитизации.
func TestCanonical(t *testing.T) {
	got, err := Canonical("1700000000000-42-Resume (v2).pdf")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	expected := "1700000000000-42-Resume__v2_.pdf"
	if got != expected {
		t.Errorf("ожидалось %q, получено %q", expected, got)
	}

	// Уже каноническое имя не меняется (идемпотентность)
	again, err := Canonical(got)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if again != got {
		t.Errorf("Canonical не идемпотентна: %q → %q", got, again)
	}
}

// TestNewPrefix проверяет форму генерируемого префикса.
func TestNewPrefix(t *testing.T) {
	prefix := NewPrefix()
	if !prefixRe.MatchString(prefix) {
		t.Errorf("префикс %q не соответствует форме epochMillis-randomInt", prefix)
	}
	if !IsManaged(Derive("x.bin", prefix)) {
		t.Errorf("имя, собранное из NewPrefix, должно быть управляемым: %q", Derive("x.bin", prefix))
	}
	if strings.Count(prefix, "-") != 1 {
		t.Errorf("префикс должен содержать ровно один дефис: %q", prefix)
	}
}
