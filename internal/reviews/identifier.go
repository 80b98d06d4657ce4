package reviews

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// provisionalPrefix marks reviews accepted locally but not yet confirmed by
// the remote store.
const provisionalPrefix = "pending-"

// committedIDRe is the shape of a remote-assigned document id: exactly 20
// alphanumeric characters.
var committedIDRe = regexp.MustCompile(`^[A-Za-z0-9]{20}$`)

// Identifier tags a review id as either provisional (local sequence number,
// awaiting remote confirmation) or committed (remote-assigned). There is no
// shape inference beyond the explicit parsers here.
type Identifier struct {
	committed bool
	seq       uint64
	remote    string
}

// NewProvisional builds a provisional identifier from a local sequence.
func NewProvisional(seq uint64) Identifier {
	return Identifier{seq: seq}
}

// NewCommitted wraps a remote-assigned id. The caller must hold an id the
// remote store actually issued; use ParseIdentifier for untrusted input.
func NewCommitted(remote string) (Identifier, error) {
	if !committedIDRe.MatchString(remote) {
		return Identifier{}, fmt.Errorf("malformed remote review id %q", remote)
	}
	return Identifier{committed: true, remote: remote}, nil
}

// ParseIdentifier accepts either rendered form: "pending-<seq>" or a 20
// character alphanumeric remote id. Anything else is rejected.
func ParseIdentifier(raw string) (Identifier, error) {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, provisionalPrefix); ok {
		seq, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return Identifier{}, fmt.Errorf("malformed provisional review id %q", raw)
		}
		return NewProvisional(seq), nil
	}
	return NewCommitted(raw)
}

// Committed reports whether the id was assigned by the remote store.
func (id Identifier) Committed() bool {
	return id.committed
}

// Provisional reports whether the id is still awaiting remote confirmation.
func (id Identifier) Provisional() bool {
	return !id.committed
}

// Remote returns the remote-assigned id, or "" for provisional identifiers.
func (id Identifier) Remote() string {
	return id.remote
}

func (id Identifier) String() string {
	if id.committed {
		return id.remote
	}
	return provisionalPrefix + strconv.FormatUint(id.seq, 10)
}

// MarshalJSON renders the string form so cached reviews survive the mirror
// round trip.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *Identifier) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseIdentifier(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
