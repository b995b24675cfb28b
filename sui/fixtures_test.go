package sui

import (
	"fmt"
)

const (
	testBankID    = "0x00000000000000000000000000000000000000000000000000000000000000aa"
	testPackageID = "0x00000000000000000000000000000000000000000000000000000000000000bb"
	testDigest    = "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi"
	testTxDigest  = "8qbHbw2BbbTHBW1sbeqakYXVKRQM8Ne7pLK7m6CVfeR"
)

// ownedBankJSON returns the data of a savings object owned by given
// address.
func ownedBankJSON(owner Address, balance string) string {
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
				"goal_amount": "1000000000",
				"unlock_timestamp_ms": "1700000000000"
			}
		}
	}`, testBankID, testDigest, testPackageID, owner, testPackageID, testBankID, owner, balance)
}

const clockJSON = `{
	"objectId": "0x0000000000000000000000000000000000000000000000000000000000000006",
	"version": "100",
	"digest": "CktRuQ2mttgRGkXJtyksdKHjUdc2C4TgDzyB98oEzy8",
	"owner": {"Shared": {"initial_shared_version": 1}}
}`

// coinsJSON returns a single page of coins with given balances.
func coinsJSON(balances ...string) string {
	data := ""
	for i, b := range balances {
		if i > 0 {
			data += ","
		}
		data += fmt.Sprintf(`{
			"coinType": "0x2::sui::SUI",
			"coinObjectId": "0x%064x",
			"version": "%d",
			"digest": %q,
			"balance": %q
		}`, 0xc0+i, 3+i, testDigest, b)
	}
	return `{"data": [` + data + `], "nextCursor": null, "hasNextPage": false}`
}
