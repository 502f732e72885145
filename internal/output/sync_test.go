package output

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynchronized(t *testing.T) {
	t.Parallel()

	// Both streams write into the same buffer, as a terminal does.
	var buf bytes.Buffer
	out, errOut := Synchronized(&buf, &buf)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			fmt.Fprintf(out, "out %d\n", i)
		}()
		go func() {
			defer wg.Done()
			fmt.Fprintf(errOut, "err %d\n", i)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 40)
	assert.Contains(t, lines, "out 7")
	assert.Contains(t, lines, "err 19")
}
