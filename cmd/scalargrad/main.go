// Scalargrad is a command-line demo of scalar reverse-mode autodiff.
//
// Usage:
//
//	scalargrad [--json] [--v N] <command> [flags]
//
// Commands:
//
//	grad     Differentiate (a + b) + c*d
//	mlp      Max-margin loss of an MLP and its gradients
//	version  Show version
package main

import (
	"flag"
	"os"

	"k8s.io/klog/v2"

	"github.com/born-ml/scalargrad/internal/cli"
)

// version is set with -ldflags at build time.
var version = "v0.1.0-dev"

func main() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	defer klog.Flush()

	rootCmd := cli.NewRootCmd(version, os.Stdout, os.Stderr)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	if err := rootCmd.Execute(); err != nil {
		klog.Errorf("%+v", err)
		klog.Flush()
		os.Exit(1)
	}
}
