package escrow

import (
	"testing"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/dapprtest/assert"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/store"
)

func TestEscrowValidate(t *testing.T) {
	valid := func() Escrow {
		return Escrow{
			Creator:         dapprtest.NewAddress(),
			Recipient:       dapprtest.NewAddress(),
			Mint:            "DUSD",
			TotalAmount:     30,
			AllocatedAmount: 10,
			DepositedAmount: 20,
			ReleasedAmount:  10,
			MilestonesCount: 2,
			Active:          true,
			CreatedAt:       dappr.AsUnixTime(dapprtest.Now),
		}
	}

	cases := map[string]struct {
		mutate    func(*Escrow)
		wantField string
		wantErr   *errors.Error
	}{
		"valid": {
			mutate: func(*Escrow) {},
		},
		"missing creator": {
			mutate:    func(e *Escrow) { e.Creator = nil },
			wantField: "Creator",
			wantErr:   errors.ErrInput,
		},
		"bad mint": {
			mutate:    func(e *Escrow) { e.Mint = "x" },
			wantField: "Mint",
			wantErr:   errors.ErrCurrency,
		},
		"no milestones": {
			mutate:    func(e *Escrow) { e.MilestonesCount = 0; e.CurrentMilestone = 0 },
			wantField: "MilestonesCount",
			wantErr:   ErrInvalidMilestoneCount,
		},
		"cursor beyond count": {
			mutate:    func(e *Escrow) { e.CurrentMilestone = 3 },
			wantField: "CurrentMilestone",
			wantErr:   errors.ErrState,
		},
		"released more than total": {
			mutate:    func(e *Escrow) { e.ReleasedAmount = 31 },
			wantField: "ReleasedAmount",
			wantErr:   errors.ErrState,
		},
		"total not the sum": {
			mutate:    func(e *Escrow) { e.TotalAmount = 31 },
			wantField: "TotalAmount",
			wantErr:   errors.ErrState,
		},
		"active but closed": {
			mutate:    func(e *Escrow) { e.Closure = ClosureEmergency },
			wantField: "Closure",
			wantErr:   errors.ErrState,
		},
		"inactive without closure": {
			mutate:    func(e *Escrow) { e.Active = false },
			wantField: "Closure",
			wantErr:   errors.ErrState,
		},
		"completed early": {
			mutate:    func(e *Escrow) { e.Active = false; e.Closure = ClosureCompleted },
			wantField: "Closure",
			wantErr:   errors.ErrState,
		},
		"no creation time": {
			mutate:    func(e *Escrow) { e.CreatedAt = 0 },
			wantField: "CreatedAt",
			wantErr:   errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := valid()
			tc.mutate(&e)
			err := e.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestMilestoneValidate(t *testing.T) {
	id := EscrowID(dapprtest.NewAddress(), dapprtest.NewAddress(), "DUSD")

	cases := map[string]struct {
		m         Milestone
		wantField string
		wantErr   *errors.Error
	}{
		"pending": {
			m: Milestone{Escrow: id, Amount: 1},
		},
		"verified": {
			m: Milestone{Escrow: id, Amount: 1, Completed: true, Verified: true, VerifiedAt: 5, VerifiedBy: dapprtest.NewAddress()},
		},
		"completed but not verified": {
			m:         Milestone{Escrow: id, Amount: 1, Completed: true},
			wantField: "Verified",
			wantErr:   errors.ErrState,
		},
		"verified without time": {
			m:         Milestone{Escrow: id, Amount: 1, Completed: true, Verified: true, VerifiedBy: dapprtest.NewAddress()},
			wantField: "VerifiedAt",
			wantErr:   errors.ErrEmpty,
		},
		"verifier without verification": {
			m:         Milestone{Escrow: id, Amount: 1, VerifiedBy: dapprtest.NewAddress()},
			wantField: "Verified",
			wantErr:   errors.ErrState,
		},
		"bad escrow": {
			m:         Milestone{Escrow: []byte("short"), Amount: 1},
			wantField: "Escrow",
			wantErr:   errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.m.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestMilestoneBucket(t *testing.T) {
	db := store.MemStore()
	b := NewMilestoneBucket()
	id := EscrowID(dapprtest.NewAddress(), dapprtest.NewAddress(), "DUSD")

	m := &Milestone{Escrow: id, Index: 4, Amount: 10, Deadline: 100}
	assert.Nil(t, b.Create(db, m))
	assert.IsErr(t, errors.ErrDuplicate, b.Create(db, &Milestone{Escrow: id, Index: 4, Amount: 11}))

	got, err := b.Get(db, id, 4)
	assert.Nil(t, err)
	assert.Equal(t, m, got)

	_, err = b.Get(db, id, 5)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.IsErr(t, errors.ErrNotFound, b.Save(db, &Milestone{Escrow: id, Index: 5, Amount: 1}))

	changed := *m
	changed.Amount = 11
	assert.IsErr(t, errors.ErrImmutable, b.Save(db, &changed))

	changed = *m
	changed.Deadline = 101
	assert.IsErr(t, errors.ErrImmutable, b.Save(db, &changed))

	done := *m
	done.Completed, done.Verified = true, true
	done.VerifiedAt, done.VerifiedBy = 7, dapprtest.NewAddress()
	assert.Nil(t, b.Save(db, &done))

	assert.IsErr(t, errors.ErrImmutable, b.Save(db, m))
}

func TestMilestoneKeyOrder(t *testing.T) {
	id := EscrowID(dapprtest.NewAddress(), dapprtest.NewAddress(), "DUSD")
	assert.Equal(t, 24, len(MilestoneKey(id, 0)))
	assert.Equal(t, []byte{0, 0, 1, 2}, MilestoneKey(id, 258)[20:])
}

func TestHoldingAddress(t *testing.T) {
	a := EscrowID(dapprtest.NewAddress(), dapprtest.NewAddress(), "DUSD")
	b := EscrowID(dapprtest.NewAddress(), dapprtest.NewAddress(), "DUSD")
	assert.Nil(t, HoldingAddress(a).Validate())
	assert.Equal(t, false, HoldingAddress(a).Equals(HoldingAddress(b)))
	assert.Equal(t, false, HoldingAddress(a).Equals(a))
}
