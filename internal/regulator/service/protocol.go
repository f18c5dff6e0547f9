package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================
// Protocol Storage
// ============================================================

// ProtocolStorage хранит протоколы ночных прогонов: один файл на локацию и день.
type ProtocolStorage struct {
	root string
}

func NewProtocolStorage(root string) *ProtocolStorage {
	return &ProtocolStorage{root: root}
}

func (s *ProtocolStorage) Path(location, date string) string {
	return filepath.Join(s.root, fmt.Sprintf("%s-%s.txt", location, date))
}

func (s *ProtocolStorage) EnsureDir() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("mkdir protocols dir: %w", err)
	}
	return nil
}

// Append дописывает протокол в файл локации за день.
func (s *ProtocolStorage) Append(location, date string, p *Protocol) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.Path(location, date), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open protocol: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(p.String()); err != nil {
		return fmt.Errorf("write protocol: %w", err)
	}
	return nil
}

// ============================================================
// Protocol
// ============================================================

// Protocol - текст протокола: этажи, под ними комнаты с изменениями.
type Protocol struct {
	b strings.Builder
}

func (p *Protocol) Floor(floor int) {
	fmt.Fprintf(&p.b, "Etage %d:\n", floor)
}

func (p *Protocol) Room(name string, area float64) {
	fmt.Fprintf(&p.b, "\t%s:  [%sm²] ", name, germanDecimal(area))
}

func (p *Protocol) Change(from, to float64) {
	fmt.Fprintf(&p.b, "%s°C ⟶ %s°C", formatTemp(from), formatTemp(to))
}

func (p *Protocol) Unchanged() {
	p.b.WriteString("Keine Veränderung")
}

func (p *Protocol) Failed(err error) {
	fmt.Fprintf(&p.b, "Fehler: %v", err)
}

func (p *Protocol) EndRoom() {
	p.b.WriteString("\n")
}

func (p *Protocol) String() string {
	return p.b.String()
}

// germanDecimal - число с двумя знаками, запятой и точками между тысячами.
func germanDecimal(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	var grouped []string
	for len(whole) > 3 {
		grouped = append([]string{whole[len(whole)-3:]}, grouped...)
		whole = whole[:len(whole)-3]
	}
	grouped = append([]string{whole}, grouped...)
	return sign + strings.Join(grouped, ".") + "," + frac
}

func formatTemp(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
