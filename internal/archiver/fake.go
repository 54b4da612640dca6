package archiver

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Call records one Archive invocation seen by a Fake.
type Call struct {
	URL  string
	Dest string
}

// Fake is an in-memory Archiver for tests. URLs listed in FailWith return
// their scripted error; everything else succeeds and, when WriteFiles is
// set, leaves a small file at the destination path.
type Fake struct {
	mu         sync.Mutex
	FailWith   map[string]string
	WriteFiles bool
	Calls      []Call
}

// Archive records the call and applies the scripted outcome.
func (f *Fake) Archive(_ context.Context, url, dest string) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, Call{URL: url, Dest: dest})
	f.mu.Unlock()

	if msg, ok := f.FailWith[url]; ok {
		return fmt.Errorf("archiver: %s", msg)
	}
	if f.WriteFiles {
		if err := os.WriteFile(dest, []byte("<html>"+url+"</html>\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}
