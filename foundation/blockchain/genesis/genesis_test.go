package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	type table struct {
		name    string
		content string
		valid   bool
	}

	tt := []table{
		{
			name:    "partial",
			content: `{"data": "Fiat Lux!", "creator_addr": "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", "diff_threshold": 7}`,
			valid:   true,
		},
		{
			name:    "bad-threshold",
			content: `{"diff_threshold": 0}`,
			valid:   false,
		},
		{
			name:    "bad-unit",
			content: `{"unit": "decimal"}`,
			valid:   false,
		},
	}

	t.Log("Given the need to load genesis settings from a file.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s file.", testID, tst.name)
			{
				f := func(t *testing.T) {
					path := filepath.Join(t.TempDir(), "genesis.json")
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
					}

					gen, err := genesis.Load(path)
					if !tst.valid {
						if !validate.IsFieldErrors(err) {
							t.Fatalf("\t%s\tTest %d:\tShould get field errors: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould get field errors.", success, testID)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

					if gen.DiffThreshold != 7 || gen.TryLimit != 10_000 || gen.ReduxTime != 0.5 {
						t.Fatalf("\t%s\tTest %d:\tShould keep defaults for missing settings: %+v", failed, testID, gen)
					}
					t.Logf("\t%s\tTest %d:\tShould keep defaults for missing settings.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
