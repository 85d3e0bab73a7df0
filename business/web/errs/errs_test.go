package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_FromLedger(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
		code   string
	}

	tt := []table{
		{"mismatch", fmt.Errorf("mine: %w", hashchain.ErrHashMismatch), http.StatusBadRequest, errs.CodeInvalidHash},
		{"notmet", hashchain.ErrDifficultyNotMet, http.StatusBadRequest, errs.CodeInvalidHash},
		{"exhausted", fmt.Errorf("%w: bus 0", state.ErrBusInsufficient), http.StatusConflict, errs.CodeBusInsufficient},
		{"notregistered", state.ErrNotRegistered, http.StatusNotFound, errs.CodeNotRegistered},
		{"notadmin", state.ErrNotAdmin, http.StatusForbidden, errs.CodeNotAdmin},
	}

	t.Log("Given the need to map ledger errors to responses.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling the %s error.", testID, tst.name)
				{
					trusted := errs.GetTrusted(errs.FromLedger(tst.err))
					if trusted == nil {
						t.Fatalf("\t%s\tTest %d:\tShould be a trusted error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be a trusted error.", success, testID)

					if trusted.Status != tst.status || trusted.Code != tst.code {
						t.Fatalf("\t%s\tTest %d:\tShould map to %d/%s : got %d/%s", failed, testID, tst.status, tst.code, trusted.Status, trusted.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould map to %d/%s.", success, testID, tst.status, tst.code)

					if !errors.Is(tst.err, errs.ToLedger(trusted.Code)) {
						t.Fatalf("\t%s\tTest %d:\tShould map the code back to the ledger error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould map the code back to the ledger error.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}

	t.Log("Given an unexpected error.")
	{
		err := errors.New("disk on fire")
		if errs.IsTrusted(errs.FromLedger(err)) {
			t.Fatalf("\t%s\tShould not trust an unknown error.", failed)
		}
		t.Logf("\t%s\tShould not trust an unknown error.", success)
	}
}
