package ledger

import "fmt"
import "strconv"
import "strings"

const fieldLedger = "ledger"
const fieldDigestTime = "digestTime" // minutes from UTC midnight

func keyOwner(owner OwnerId) string {
	return fmt.Sprintf("owner:%d", owner)
}

func scannerOwners() string {
	return "owner:*"
}

func ownerFromKey(key string) (OwnerId, error) {
	idStr := strings.TrimPrefix(key, "owner:")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed owner key '%s': %v", key, err)
	}
	return OwnerId(id), nil
}
