package ports

import "time"

// Clock supplies wall time. Injected so transition accounting is
// deterministic under test.
type Clock interface {
	Now() time.Time
}
