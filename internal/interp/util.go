package interp

import (
	"fmt"
	"math"
	"strconv"
)

func sprintf(format string, args ...interface{}) string { return fmt.Sprintf(format, args...) }

func mathMod(a, b float64) float64 { return math.Mod(a, b) }

func rawToF64(raw uint64) float64 { return math.Float64frombits(raw) }

func f64ToRaw(f float64) uint64 { return math.Float64bits(f) }

func itoa64(n int64) string { return strconv.FormatInt(n, 10) }

func utoa64(n uint64) string { return strconv.FormatUint(n, 10) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
