package governor

import (
	"fmt"

	"github.com/google/uuid"
)

// nextID generates a unique decision id: a monotonic sequence number for
// ordering plus a random fragment so ids stay unique across restarts.
func (g *Governor) nextID() string {
	n := g.seq.Add(1)
	return fmt.Sprintf("d-%08d-%s", n, uuid.NewString()[:8])
}
