package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/piggybank/piggytest/suimock"
)

const (
	testBankID    = "0x00000000000000000000000000000000000000000000000000000000000000aa"
	testPackageID = "0x00000000000000000000000000000000000000000000000000000000000000bb"
	testDigest    = "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi"
	testTxDigest  = "8qbHbw2BbbTHBW1sbeqakYXVKRQM8Ne7pLK7m6CVfeR"

	// testKeystore holds the RFC 8032 test key controlling testAddress.
	testKeystore = `["AJ1hsZ3v/VpguoRK9JLsLMREScVpezJpGXA7rAMcrn9g"]`
	testAddress  = "0x304af458e90e97c841685b8cbbc59b909f3e2cf150df590ada4c81452c29737d"

	// Unlock times far away from the time tests run.
	pastMs   = "1600000000000"
	futureMs = "4000000000000"
)

func TestMain(m *testing.M) {
	// Builders echo amounts and the logger writes to standard error, none
	// of which is tested through those writers.
	messages = ioutil.Discard
	logOutput = ioutil.Discard
	os.Exit(m.Run())
}

// testEnv is a configuration pointing to a mock node, with a keystore and a
// journal in a temporary directory.
type testEnv struct {
	node    *suimock.Node
	dir     string
	config  string
	journal string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir, err := ioutil.TempDir("", "piggycli")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	node := suimock.New(t)
	env := &testEnv{
		node:    node,
		dir:     dir,
		config:  filepath.Join(dir, "piggycli.yaml"),
		journal: filepath.Join(dir, "journal.db"),
	}
	keystore := filepath.Join(dir, "sui.keystore")
	if err := ioutil.WriteFile(keystore, []byte(testKeystore), 0600); err != nil {
		t.Fatalf("cannot write keystore: %s", err)
	}
	conf := fmt.Sprintf(`
rpc_url: %s
package_id: %q
keystore: %s
journal: %s
poll_interval: 10ms
wait_timeout: 5s
log_level: none
`, node.URL(), testPackageID, keystore, env.journal)
	if err := ioutil.WriteFile(env.config, []byte(conf), 0600); err != nil {
		t.Fatalf("cannot write configuration: %s", err)
	}

	node.Result("suix_getCoins", `{
		"data": [{
			"coinType": "0x2::sui::SUI",
			"coinObjectId": "0x00000000000000000000000000000000000000000000000000000000000000c0",
			"version": "3",
			"digest": "`+testDigest+`",
			"balance": "50000000000"
		}],
		"nextCursor": null,
		"hasNextPage": false
	}`)
	node.Result("suix_getReferenceGasPrice", `"750"`)
	node.SetObject("0x6", `{
		"objectId": "0x0000000000000000000000000000000000000000000000000000000000000006",
		"version": "100",
		"digest": "CktRuQ2mttgRGkXJtyksdKHjUdc2C4TgDzyB98oEzy8",
		"owner": {"Shared": {"initial_shared_version": 1}}
	}`)
	return env
}

func (e *testEnv) Close() {
	e.node.Close()
	os.RemoveAll(e.dir)
}

// args prepends the configuration flag to given command line arguments.
func (e *testEnv) args(args ...string) []string {
	return append([]string{"-config", e.config}, args...)
}

// bankJSON returns the data of a savings object owned by the test key.
func bankJSON(id, balance, goal, unlockMs string) string {
	return fmt.Sprintf(`{
		"objectId": %q,
		"version": "12",
		"digest": %q,
		"type": "%s::counter::PiggyBank",
		"owner": {"AddressOwner": %q},
		"content": {
			"dataType": "moveObject",
			"type": "%s::counter::PiggyBank",
			"hasPublicTransfer": true,
			"fields": {
				"id": {"id": %q},
				"owner": %q,
				"balance": %q,
				"goal_amount": %q,
				"unlock_timestamp_ms": %q
			}
		}
	}`, id, testDigest, testPackageID, testAddress, testPackageID, id, testAddress, balance, goal, unlockMs)
}

// effectsJSON returns an executed transaction response.
func effectsJSON(status, reason, created string) string {
	errAttr := ""
	if reason != "" {
		errAttr = `, "error": "` + reason + `"`
	}
	createdAttr := ""
	if created != "" {
		createdAttr = `, "created": [{"owner": {"AddressOwner": "` + testAddress + `"}, "reference": {"objectId": "` + created + `", "version": 13, "digest": "` + testDigest + `"}}]`
	}
	return `{
		"digest": "` + testTxDigest + `",
		"effects": {
			"status": {"status": "` + status + `"` + errAttr + `},
			"transactionDigest": "` + testTxDigest + `",
			"gasUsed": {"computationCost": "1", "storageCost": "2", "storageRebate": "3", "nonRefundableStorageFee": "0"}` + createdAttr + `
		}
	}`
}
