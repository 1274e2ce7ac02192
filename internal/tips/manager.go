package tips

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/2beens/infofit/internal/pose"

	log "github.com/sirupsen/logrus"
)

//go:embed tips.csv
var defaultTipsCsv []byte

type Manager struct {
	exerciseTips map[pose.Exercise][]string
	count        int
}

// NewDefaultManager loads the posture tips shipped with the binary.
func NewDefaultManager() (*Manager, error) {
	return NewManager(csv.NewReader(bytes.NewReader(defaultTipsCsv)))
}

func NewManager(tipsCsvReader *csv.Reader) (*Manager, error) {
	m := &Manager{
		exerciseTips: make(map[pose.Exercise][]string),
	}

	log.Debugln("reading posture tips CSV ...")

	tipsCsvReader.Comma = ';'
	tipsCsvReader.FieldsPerRecord = -1
	for {
		record, err := tipsCsvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		// EXERCISE;TIP
		if len(record) != 2 {
			return nil, fmt.Errorf("record [%s] does not have 2 elements", record)
		}

		exercise, ok := pose.ParseExercise(strings.TrimSpace(record[0]))
		if !ok {
			return nil, fmt.Errorf("record [%s]: unknown exercise", record)
		}
		tip := strings.TrimSpace(record[1])
		if tip == "" {
			return nil, fmt.Errorf("record [%s]: empty tip", record)
		}

		m.exerciseTips[exercise] = append(m.exerciseTips[exercise], tip)
		m.count++
	}

	log.Debugf("posture tips CSV read %d tips", m.count)

	return m, nil
}

// Tips returns the posture tips for the exercise, in file order.
func (m *Manager) Tips(exercise pose.Exercise) []string {
	tips := m.exerciseTips[exercise]
	if len(tips) == 0 {
		return nil
	}
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}

func (m *Manager) Count() int {
	return m.count
}
