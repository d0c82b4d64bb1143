// Package memory is an in-process implementation of the repository interfaces.
// It backs STORE_DRIVER=memory and the service-level tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// ErrDuplicateVersion mirrors the (loan_id, version) unique constraint of the SQL schema.
var ErrDuplicateVersion = errors.New("document version already exists for loan")

type state struct {
	loans       []model.Loan
	covenants   []model.Covenant
	obligations []model.Obligation
	risks       []model.RiskFactor
	audit       []model.AuditEvent
	documents   []model.Document
	comparisons []model.VersionComparison
}

func (s *state) clone() *state {
	return &state{
		loans:       append([]model.Loan(nil), s.loans...),
		covenants:   append([]model.Covenant(nil), s.covenants...),
		obligations: append([]model.Obligation(nil), s.obligations...),
		risks:       append([]model.RiskFactor(nil), s.risks...),
		audit:       append([]model.AuditEvent(nil), s.audit...),
		documents:   append([]model.Document(nil), s.documents...),
		comparisons: append([]model.VersionComparison(nil), s.comparisons...),
	}
}

// Store holds every record in memory. Transactions are serialized: WithinTx
// holds the store lock for the duration of fn and restores a snapshot on error.
type Store struct {
	mu   sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: &state{}}
}

var _ repository.UnitOfWork = (*Store)(nil)

// Repos returns repositories that lock the store per call.
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(s.repos(true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) repos(inTx bool) repository.Repos {
	b := base{store: s, inTx: inTx}
	return repository.Repos{
		Loans:       &loanRepo{b},
		Covenants:   &covenantRepo{b},
		Obligations: &obligationRepo{b},
		Risks:       &riskRepo{b},
		Audit:       &auditRepo{b},
		Documents:   &documentRepo{b},
		Comparisons: &comparisonRepo{b},
	}
}

type base struct {
	store *Store
	inTx  bool
}

// with runs fn against the current state, taking the lock unless the caller
// is already inside WithinTx.
func (b base) with(fn func(d *state) error) error {
	if !b.inTx {
		b.store.mu.Lock()
		defer b.store.mu.Unlock()
	}
	return fn(b.store.data)
}

// loans

type loanRepo struct{ base }

func (r *loanRepo) Create(ctx context.Context, l *model.Loan) error {
	return r.with(func(d *state) error {
		d.loans = append(d.loans, cloneLoan(*l))
		return nil
	})
}

func (r *loanRepo) FindByID(ctx context.Context, id string) (*model.Loan, error) {
	var out *model.Loan
	err := r.with(func(d *state) error {
		for i := range d.loans {
			if d.loans[i].ID == id {
				l := cloneLoan(d.loans[i])
				out = &l
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *loanRepo) List(ctx context.Context, status model.LoanStatus) ([]model.Loan, error) {
	out := make([]model.Loan, 0)
	err := r.with(func(d *state) error {
		for i := len(d.loans) - 1; i >= 0; i-- {
			if status == "" || d.loans[i].Status == status {
				out = append(out, cloneLoan(d.loans[i]))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *loanRepo) Update(ctx context.Context, l *model.Loan) error {
	return r.with(func(d *state) error {
		for i := range d.loans {
			if d.loans[i].ID == l.ID {
				upd := cloneLoan(*l)
				upd.HealthScore = d.loans[i].HealthScore
				upd.HealthTier = d.loans[i].HealthTier
				upd.CreatedAt = d.loans[i].CreatedAt
				d.loans[i] = upd
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *loanRepo) UpdateHealth(ctx context.Context, id string, score int, tier model.HealthTier, at time.Time) error {
	return r.with(func(d *state) error {
		for i := range d.loans {
			if d.loans[i].ID == id {
				d.loans[i].HealthScore = score
				d.loans[i].HealthTier = tier
				d.loans[i].UpdatedAt = at
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *loanRepo) Delete(ctx context.Context, id string) error {
	return r.with(func(d *state) error {
		d.loans = removeWhere(d.loans, func(l model.Loan) bool { return l.ID == id })
		return nil
	})
}

func cloneLoan(l model.Loan) model.Loan {
	l.SyndicateMembers = append([]string(nil), l.SyndicateMembers...)
	return l
}

// covenants

type covenantRepo struct{ base }

func (r *covenantRepo) Create(ctx context.Context, c *model.Covenant) error {
	return r.with(func(d *state) error {
		d.covenants = append(d.covenants, *c)
		return nil
	})
}

func (r *covenantRepo) FindByID(ctx context.Context, id string) (*model.Covenant, error) {
	var out *model.Covenant
	err := r.with(func(d *state) error {
		for i := range d.covenants {
			if d.covenants[i].ID == id {
				c := d.covenants[i]
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *covenantRepo) ListByLoan(ctx context.Context, loanID string) ([]model.Covenant, error) {
	out := make([]model.Covenant, 0)
	err := r.with(func(d *state) error {
		for _, c := range d.covenants {
			if c.LoanID == loanID {
				out = append(out, c)
			}
		}
		return nil
	})
	return out, err
}

func (r *covenantRepo) Update(ctx context.Context, c *model.Covenant) error {
	return r.with(func(d *state) error {
		for i := range d.covenants {
			if d.covenants[i].ID == c.ID {
				d.covenants[i] = *c
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *covenantRepo) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.with(func(d *state) error {
		d.covenants = removeWhere(d.covenants, func(c model.Covenant) bool { return c.LoanID == loanID })
		return nil
	})
}

// obligations

type obligationRepo struct{ base }

func (r *obligationRepo) Create(ctx context.Context, o *model.Obligation) error {
	return r.with(func(d *state) error {
		d.obligations = append(d.obligations, *o)
		return nil
	})
}

func (r *obligationRepo) FindByID(ctx context.Context, id string) (*model.Obligation, error) {
	var out *model.Obligation
	err := r.with(func(d *state) error {
		for i := range d.obligations {
			if d.obligations[i].ID == id {
				o := d.obligations[i]
				out = &o
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *obligationRepo) ListByLoan(ctx context.Context, loanID string) ([]model.Obligation, error) {
	out := make([]model.Obligation, 0)
	err := r.with(func(d *state) error {
		for _, o := range d.obligations {
			if o.LoanID == loanID {
				out = append(out, o)
			}
		}
		return nil
	})
	return out, err
}

func (r *obligationRepo) Update(ctx context.Context, o *model.Obligation) error {
	return r.with(func(d *state) error {
		for i := range d.obligations {
			if d.obligations[i].ID == o.ID {
				d.obligations[i] = *o
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *obligationRepo) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.with(func(d *state) error {
		d.obligations = removeWhere(d.obligations, func(o model.Obligation) bool { return o.LoanID == loanID })
		return nil
	})
}

// risk factors

type riskRepo struct{ base }

func (r *riskRepo) Create(ctx context.Context, rf *model.RiskFactor) error {
	return r.with(func(d *state) error {
		d.risks = append(d.risks, *rf)
		return nil
	})
}

func (r *riskRepo) ListByLoan(ctx context.Context, loanID string) ([]model.RiskFactor, error) {
	out := make([]model.RiskFactor, 0)
	err := r.with(func(d *state) error {
		for _, rf := range d.risks {
			if rf.LoanID == loanID {
				out = append(out, rf)
			}
		}
		return nil
	})
	return out, err
}

func (r *riskRepo) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.with(func(d *state) error {
		d.risks = removeWhere(d.risks, func(rf model.RiskFactor) bool { return rf.LoanID == loanID })
		return nil
	})
}

// audit events

type auditRepo struct{ base }

func (r *auditRepo) Append(ctx context.Context, e *model.AuditEvent) error {
	return r.with(func(d *state) error {
		d.audit = append(d.audit, *e)
		return nil
	})
}

func (r *auditRepo) ListByLoan(ctx context.Context, loanID string) ([]model.AuditEvent, error) {
	out := make([]model.AuditEvent, 0)
	err := r.with(func(d *state) error {
		for i := len(d.audit) - 1; i >= 0; i-- {
			if d.audit[i].LoanID == loanID {
				out = append(out, d.audit[i])
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, err
}

func (r *auditRepo) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.with(func(d *state) error {
		d.audit = removeWhere(d.audit, func(e model.AuditEvent) bool { return e.LoanID == loanID })
		return nil
	})
}

// documents

type documentRepo struct{ base }

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) error {
	return r.with(func(d *state) error {
		for _, existing := range d.documents {
			if existing.LoanID == doc.LoanID && existing.Version == doc.Version {
				return ErrDuplicateVersion
			}
		}
		d.documents = append(d.documents, *doc)
		return nil
	})
}

func (r *documentRepo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var out *model.Document
	err := r.with(func(d *state) error {
		for i := range d.documents {
			if d.documents[i].ID == id {
				doc := d.documents[i]
				out = &doc
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *documentRepo) ListByLoan(ctx context.Context, loanID string) ([]model.Document, error) {
	out := make([]model.Document, 0)
	err := r.with(func(d *state) error {
		for _, doc := range d.documents {
			if doc.LoanID == loanID {
				out = append(out, doc)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, err
}

func (r *documentRepo) CountByLoan(ctx context.Context, loanID string) (int, error) {
	n := 0
	err := r.with(func(d *state) error {
		for _, doc := range d.documents {
			if doc.LoanID == loanID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *documentRepo) MaxVersionByLoan(ctx context.Context, loanID string) (int, error) {
	max := 0
	err := r.with(func(d *state) error {
		for _, doc := range d.documents {
			if doc.LoanID == loanID && doc.Version > max {
				max = doc.Version
			}
		}
		return nil
	})
	return max, err
}

func (r *documentRepo) UpdateExtractedTerms(ctx context.Context, id string, terms map[string]any) error {
	return r.with(func(d *state) error {
		for i := range d.documents {
			if d.documents[i].ID == id {
				d.documents[i].ExtractedTerms = terms
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	return r.with(func(d *state) error {
		d.documents = removeWhere(d.documents, func(doc model.Document) bool { return doc.ID == id })
		return nil
	})
}

func (r *documentRepo) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.with(func(d *state) error {
		d.documents = removeWhere(d.documents, func(doc model.Document) bool { return doc.LoanID == loanID })
		return nil
	})
}

// comparisons

type comparisonRepo struct{ base }

func (r *comparisonRepo) Create(ctx context.Context, c *model.VersionComparison) error {
	return r.with(func(d *state) error {
		d.comparisons = append(d.comparisons, *c)
		return nil
	})
}

func (r *comparisonRepo) ListByLoan(ctx context.Context, loanID string) ([]model.VersionComparison, error) {
	out := make([]model.VersionComparison, 0)
	err := r.with(func(d *state) error {
		for i := len(d.comparisons) - 1; i >= 0; i-- {
			if d.comparisons[i].LoanID == loanID {
				out = append(out, d.comparisons[i])
			}
		}
		return nil
	})
	return out, err
}

func (r *comparisonRepo) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.with(func(d *state) error {
		d.comparisons = removeWhere(d.comparisons, func(c model.VersionComparison) bool { return c.LoanID == loanID })
		return nil
	})
}

// removeWhere returns a new slice so snapshots taken by WithinTx stay intact.
func removeWhere[T any](in []T, match func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out
}
