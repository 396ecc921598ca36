// Command batchgcd runs the batch GCD factorization pipeline over a CSV
// table of RSA moduli: product-tree build, remainder-tree descent, and
// GCD extraction of any modulus sharing a prime factor with another.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "batchgcd",
	Short: "Find RSA moduli sharing prime factors via batch GCD",
	Long: `batchgcd discovers which RSA moduli in a large batch share a common
prime factor, using Bernstein's product-tree / remainder-tree construction
so the whole batch is reduced with O(k log k) big-integer multiplications
instead of the O(k^2) pairwise GCDs a naive approach would require.`,
	// main prints the returned error once; cobra prints nothing itself.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, optional)")
	rootCmd.AddCommand(newRunCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
