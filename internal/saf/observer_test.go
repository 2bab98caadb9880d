package saf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histogen/pkg/contracts/domain"
)

type recordingObserver struct {
	events    []string
	failed    *ParseError
	completed []int
}

func (r *recordingObserver) BlockEntered(line int, block Block, id int) {
	r.events = append(r.events, fmt.Sprintf("%d enter %s #%d", line, block, id))
}

func (r *recordingObserver) BlockExited(line int, block Block, id int) {
	r.events = append(r.events, fmt.Sprintf("%d exit %s #%d", line, block, id))
}

func (r *recordingObserver) RowEmitted(line int, row domain.BinObservation) {
	r.events = append(r.events, fmt.Sprintf("%d row #%d", line, row.ID))
}

func (r *recordingObserver) ParseFailed(err *ParseError) { r.failed = err }

func (r *recordingObserver) ParseCompleted(records, rows int) {
	r.completed = []int{records, rows}
}

func TestObserver_TracePoints(t *testing.T) {
	rec := &recordingObserver{}
	_, err := Parse(context.Background(), openTestdata(t, "minimal.saf"), WithObserver(rec))
	require.NoError(t, err)

	expected := []string{
		"3 enter Histo #1",
		"4 enter Description #1",
		"10 exit Description #1",
		"11 enter Statistics #1",
		"19 exit Statistics #1",
		"20 enter Data #1",
		"21 row #1",
		"22 row #1",
		"23 row #1",
		"24 row #1",
		"25 exit Data #1",
		"26 exit Histo #1",
	}
	assert.Equal(t, expected, rec.events)
	assert.Equal(t, []int{1, 4}, rec.completed)
	assert.Nil(t, rec.failed)
}

func TestObserver_DoesNotAlterOutcome(t *testing.T) {
	inputs := []string{
		"<Histo>\n<Data>\n</Data>\n</Histo>\n",
		histoBlock("a", "1 0 1", "SR", defaultStats, []string{"0 0", "1 0", "0 0"}),
	}

	for i, input := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			plain, plainErr := Parse(context.Background(), strings.NewReader(input))

			rec := &recordingObserver{}
			var buf bytes.Buffer
			observed, observedErr := Parse(context.Background(), strings.NewReader(input),
				WithObserver(MultiObserver{rec, NewProgressObserver(&buf), NewLogObserver(slog.New(slog.NewTextHandler(&buf, nil)))}))

			assert.Equal(t, plain, observed)
			assert.Equal(t, plainErr, observedErr)
			if plainErr != nil {
				require.NotNil(t, rec.failed)
				assert.Equal(t, KindOf(plainErr), rec.failed.Kind)
			}
		})
	}
}

func TestProgressObserver(t *testing.T) {
	var buf bytes.Buffer
	_, err := Parse(context.Background(), openTestdata(t, "example_histos.saf"),
		WithObserver(NewProgressObserver(&buf)))
	require.NoError(t, err)
	assert.Equal(t, "...\n3 histograms, 17 rows\n", buf.String())

	buf.Reset()
	_, err = Parse(context.Background(), strings.NewReader("<Histo>\n"), WithObserver(NewProgressObserver(&buf)))
	require.Error(t, err)
	assert.Equal(t, "\n", buf.String())
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Parse(context.Background(), openTestdata(t, "minimal.saf"), WithObserver(NewLogObserver(logger)))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"saf_parser"`)
	assert.Contains(t, out, `"msg":"Row emitted"`)
	assert.Contains(t, out, `"msg":"SAF parse complete"`)
	assert.Contains(t, out, `"rows":4`)
}
