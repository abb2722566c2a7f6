package avro

import (
	"math/big"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/linkedin/goavro/v2"
)

// normalize converts a decoded Avro datum into a frame value. A union datum
// arrives wrapped in a single-entry map keyed by the member type.
func normalize(v any, union bool) (any, error) {
	if m, ok := v.(map[string]any); ok && union && len(m) == 1 {
		for _, inner := range m {
			v = inner
		}
	}

	switch val := v.(type) {
	case nil, bool, int64, float64, string:
		return val, nil
	case int32:
		return int64(val), nil
	case int:
		return int64(val), nil
	case float32:
		return float64(val), nil
	case []byte:
		return string(val), nil
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano), nil
	case time.Duration:
		return val.String(), nil
	case *big.Rat:
		return val.FloatString(decimalDigits(val)), nil
	default:
		// Records, arrays and maps keep their JSON text.
		return jsoniter.MarshalToString(val)
	}
}

// decimalDigits is the number of fraction digits needed to print r exactly,
// capped for non-terminating fractions.
func decimalDigits(r *big.Rat) int {
	scaled := new(big.Int)
	ten := big.NewInt(10)
	pow := big.NewInt(1)
	for n := 0; n < 38; n++ {
		if scaled.Mul(r.Num(), pow).Mod(scaled, r.Denom()).Sign() == 0 {
			return n
		}
		pow.Mul(pow, ten)
	}
	return 38
}

// datum converts a frame value into the Avro datum of a nullable field.
func datum(v any, avroType string) any {
	if v == nil {
		return nil
	}
	return goavro.Union(avroType, v)
}
