package disclosure

import (
	"os"

	"github.com/bytedance/sonic"

	"github.com/fintrid/tridcheck/internal/common"
)

// DecodeFeeRecord parses and validates a fee record document.
func DecodeFeeRecord(data []byte) (*FeeRecord, error) {
	if err := ValidateAgainstSchema(BuildFeeRecordJSONSchema(), data); err != nil {
		return nil, err
	}
	var rec FeeRecord
	if err := sonic.Unmarshal(data, &rec); err != nil {
		return nil, common.NewAppError("DECODE_ERROR", "decode fee record", err)
	}
	return &rec, nil
}

// LoadFeeRecord reads a fee record JSON file from disk.
func LoadFeeRecord(path string) (*FeeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewAppError("NOT_FOUND", "fee record file not found", common.ErrNotFound)
		}
		return nil, common.WrapError(err, "read fee record file")
	}
	return DecodeFeeRecord(data)
}
