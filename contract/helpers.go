package contract

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"

	"labshare_dao/sdk"
)

////////////////////////////////////////////////////////////////////////////////
// Helpers: json, returns, role checks
////////////////////////////////////////////////////////////////////////////////

// ToJSON renders getter views. Getters are read-only so a failure here is a bug, hence the abort.
func ToJSON[T any](v T, objectType string) string {
	b, err := json.Marshal(v)
	if err != nil {
		sdk.Abort(fmt.Sprintf("failed to marshal %s: %v", objectType, err))
	}
	return string(b)
}

// Convenience helper
func strptr(s string) *string { return &s }

func retU64(n uint64) *string { return strptr(strconv.FormatUint(n, 10)) }

func retID(id sdk.ObjectID) *string { return strptr(id.String()) }

// requireRole aborts with the module's NotAuthorized code unless the sender is one of allowed.
// Every module numbers NotAuthorized as 0, so one helper serves all of them.
func requireRole(ctx *sdk.Ctx, module string, what string, allowed ...sdk.Address) {
	sender := ctx.Sender()
	for _, a := range allowed {
		if a == sender {
			return
		}
	}
	sdk.AbortCode(module, 0, "only "+what+" may do this")
}

// requirePositive aborts with the given code on zero amounts.
func requirePositive(module string, code uint64, amount uint64, what string) {
	if amount == 0 {
		sdk.AbortCode(module, code, what+" must be positive")
	}
}

// mulDivFloor computes floor(a*b/d) with a 128 bit intermediate so bps math never overflows.
func mulDivFloor(a, b, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		sdk.Abort("arithmetic overflow")
	}
	q, _ := bits.Div64(hi, lo, d)
	return q
}

// checkedMul aborts on uint64 overflow.
func checkedMul(a, b uint64, module string, code uint64) uint64 {
	if a != 0 && b > ^uint64(0)/a {
		sdk.AbortCode(module, code, "amount overflow")
	}
	return a * b
}

// checkedAdd aborts on uint64 overflow.
func checkedAdd(a, b uint64, module string, code uint64) uint64 {
	if a+b < a {
		sdk.AbortCode(module, code, "amount overflow")
	}
	return a + b
}
