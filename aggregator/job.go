package aggregator

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/jobverify/jobverify/common"
)

// JobPosting is the normalized read model of one on-chain job listing.
// This layer never mutates a posting; it only reads and normalizes.
type JobPosting struct {
	ID                  int64
	CompanyAddress      ethcommon.Address
	Title               string
	Description         string
	RequiredCredentials []ethcommon.Hash
	MinimumTrustScore   int64
	Status              string
}

const (
	StatusActive    = "Active"
	StatusClosed    = "Closed"
	StatusFilled    = "Filled"
	StatusCancelled = "Cancelled"
)

func statusString(status uint8) string {
	switch status {
	case 0:
		return StatusActive
	case 1:
		return StatusClosed
	case 2:
		return StatusFilled
	default:
		return StatusCancelled
	}
}

// fillPlaceholders substitutes the documented defaults for empty text
// fields so the UI layer never renders blank titles.
func (j *JobPosting) fillPlaceholders() {
	if j.Title == "" {
		j.Title = fmt.Sprintf("Job #%d", j.ID)
	}
	if j.Description == "" {
		j.Description = "No description available"
	}
}

// coerceTrustScore normalizes a trust score field that legacy contract
// replies deliver in whatever shape the decoding layer produced: a boxed
// big integer, a native number, or a numeric string. The result is bounded
// to [0, 100]. A value too large for int32 is a NumericOverflowError the
// caller counts and skips; junk that is not numeric at all degrades to 0.
func coerceTrustScore(v interface{}) (int64, error) {
	var score int64
	switch val := v.(type) {
	case nil:
		return 0, nil
	case *big.Int:
		s, err := common.BigToBoundedInt64(val)
		if err != nil {
			return 0, &common.NumericOverflowError{Field: "minimumTrustScore", Value: val.String()}
		}
		score = s
	case int64:
		score = val
	case int:
		score = int64(val)
	case uint8:
		score = int64(val)
	case uint16:
		score = int64(val)
	case uint32:
		score = int64(val)
	case uint64:
		if val > uint64(1)<<31-1 {
			return 0, &common.NumericOverflowError{
				Field: "minimumTrustScore",
				Value: strconv.FormatUint(val, 10),
			}
		}
		score = int64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		parsed, ok := big.NewInt(0).SetString(trimmed, 10)
		if !ok {
			return 0, nil
		}
		s, err := common.BigToBoundedInt64(parsed)
		if err != nil {
			return 0, &common.NumericOverflowError{Field: "minimumTrustScore", Value: trimmed}
		}
		score = s
	default:
		return 0, nil
	}

	if score < 0 {
		return 0, nil
	}
	if score > 100 {
		return 100, nil
	}
	return score, nil
}

func hashesFromWords(words [][32]byte) []ethcommon.Hash {
	result := []ethcommon.Hash{}
	for _, w := range words {
		result = append(result, ethcommon.Hash(w))
	}
	return result
}
