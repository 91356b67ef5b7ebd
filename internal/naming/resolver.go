package naming

import "path"

// Verdict classifies the outcome of resolving one archive entry.
type Verdict uint8

const (
	// Accepted means the entry was assigned a safe name.
	Accepted Verdict = iota

	// Skipped means the entry was ignored without a diagnostic.
	Skipped

	// Rejected means the entry was refused and produced a diagnostic.
	Rejected
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Skipped:
		return "skipped"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Cause identifies why an entry was rejected.
type Cause uint8

// Rejection causes, in the order they are checked.
const (
	CauseNone Cause = iota
	CauseNonASCII
	CauseDuplicate
	CauseNoExtension
)

// String returns the string representation of the cause.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseNonASCII:
		return "non-ascii"
	case CauseDuplicate:
		return "duplicate"
	case CauseNoExtension:
		return "no-extension"
	default:
		return "unknown"
	}
}

// Decision is the result of resolving one original path.
type Decision struct {
	Verdict Verdict

	// Name is the assigned safe name. Set only when Verdict is Accepted.
	Name string

	// Cause and Message describe a rejection. Message is the diagnostic
	// line recorded in the error ledger.
	Cause   Cause
	Message string
}

// Resolver assigns safe names to original paths for a single run.
//
// Checks run in order and the first failing check decides: self-skip,
// non-ASCII, duplicate original, normalization, missing extension. A
// surviving candidate that is already taken gets '_' prepended until it
// is free. Resolver is not safe for concurrent use.
type Resolver struct {
	cfg         Config
	archiveName string
	registry    *Registry
}

// NewResolver creates a resolver. archiveName is the base name of the input
// archive; entries whose final path component equals it are skipped.
func NewResolver(cfg Config, archiveName string) *Resolver {
	return &Resolver{
		cfg:         cfg,
		archiveName: archiveName,
		registry:    NewRegistry(),
	}
}

// Resolve classifies original and, when accepted, records its safe name.
func (r *Resolver) Resolve(original string) Decision {
	if r.archiveName != "" && path.Base(original) == r.archiveName {
		return Decision{Verdict: Skipped}
	}

	if !IsASCII(original) {
		return reject(CauseNonASCII, "Skipping non-ascii path: "+original)
	}

	if r.registry.HasOriginal(original) {
		return reject(CauseDuplicate, "Skipping duplicate path: "+original)
	}

	candidate := Normalize(original, r.cfg)
	if !HasExtension(candidate) {
		return reject(CauseNoExtension, "Skipping path without extension: "+candidate)
	}

	for r.registry.HasName(candidate) {
		candidate = "_" + candidate
	}

	// Both sides were checked above, so Insert cannot fail.
	if err := r.registry.Insert(original, candidate); err != nil {
		panic(err)
	}
	return Decision{Verdict: Accepted, Name: candidate}
}

// Pairs returns all assignments in acceptance order.
func (r *Resolver) Pairs() []Pair {
	return r.registry.Pairs()
}

func reject(cause Cause, message string) Decision {
	return Decision{Verdict: Rejected, Cause: cause, Message: message}
}
