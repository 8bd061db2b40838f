package pathfinder

import (
	"strconv"
	"testing"

	"github.com/nao1215/wikirace/internal/model"
)

func TestPathQueueFIFO(t *testing.T) {
	t.Parallel()

	q := newPathQueue()
	for i := range 5000 {
		q.Push(model.Path{strconv.Itoa(i)})
	}

	for i := range 5000 {
		if got := q.Pop().Last(); got != strconv.Itoa(i) {
			t.Fatalf("pop %d: expected %s, got %s", i, strconv.Itoa(i), got)
		}
		if i == 2500 {
			q.Push(model.Path{"tail"})
		}
	}

	if q.Len() != 1 {
		t.Fatalf("expected 1 remaining path, got %d", q.Len())
	}
	if got := q.Pop().Last(); got != "tail" {
		t.Errorf("expected tail, got %s", got)
	}
}
