// Package months traduce los nombres de mes en danés usados en permisos y líneas de factura.
package months

import (
	"strings"
	"time"
)

var names = [...]string{
	"Januar", "Februar", "Marts", "April", "Maj", "Juni",
	"Juli", "August", "September", "Oktober", "November", "December",
}

// Name devuelve el nombre danés del mes (1..12) o "" si está fuera de rango.
func Name(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}

// Names los doce nombres en orden.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names[:])
	return out
}

// Parse convierte un nombre de mes danés en número, sin distinguir mayúsculas.
// Solo mira la primera palabra, así "Juli 2025" también es válido.
func Parse(s string) (time.Month, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	for i, n := range names {
		if strings.EqualFold(fields[0], n) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// FromMonth nombres de los meses >= m, en orden.
func FromMonth(m time.Month) []string {
	if m < time.January {
		m = time.January
	}
	if m > time.December {
		return nil
	}
	return Names()[m-1:]
}
