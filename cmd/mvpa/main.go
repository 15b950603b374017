// Command mvpa runs univariate ANOVA and cross-validated classification on
// datasets stored as CSV (label,chunk,f1,...,fn).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
