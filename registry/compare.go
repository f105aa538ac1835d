package registry

import (
	"sort"

	"github.com/schemawire/schemawire/digest"
)

// Status classifies one name in a comparison between a local and a remote
// registry.
type Status string

const (
	// StatusOK: both sides registered the name with equal digests.
	StatusOK Status = "ok"
	// StatusMismatch: both sides registered the name, digests differ.
	StatusMismatch Status = "mismatch"
	// StatusMissing: registered locally, absent on the remote.
	StatusMissing Status = "missing"
	// StatusExtra: registered on the remote, absent locally.
	StatusExtra Status = "extra"
)

// Result reports one name's compatibility. Absent digests are Zero.
type Result struct {
	Name   string
	Status Status
	Local  digest.Digest
	Remote digest.Digest
}

// Compare matches r (local) against remote, name by name, ordered by name.
//
// Compare only reports; the consequence of a mismatch (reject connection,
// reject call, fall back) is the transport layer's decision.
func (r *Registry) Compare(remote *Registry) []Result {
	var out []Result
	for _, name := range r.Names() {
		local := r.entries[name]
		re, ok := remote.entries[name]
		switch {
		case !ok:
			out = append(out, Result{Name: name, Status: StatusMissing, Local: local.Digest})
		case re.Digest == local.Digest:
			out = append(out, Result{Name: name, Status: StatusOK, Local: local.Digest, Remote: re.Digest})
		default:
			out = append(out, Result{Name: name, Status: StatusMismatch, Local: local.Digest, Remote: re.Digest})
		}
	}
	for _, name := range remote.Names() {
		if _, ok := r.entries[name]; !ok {
			out = append(out, Result{Name: name, Status: StatusExtra, Remote: remote.entries[name].Digest})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Compatible reports whether every shared name matched. Missing and extra
// names are not themselves incompatibilities; callers that require an exact
// set should also check for StatusMissing/StatusExtra.
func Compatible(results []Result) bool {
	for _, res := range results {
		if res.Status == StatusMismatch {
			return false
		}
	}
	return true
}
