package cli

import (
	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// NodeReport is one named node after a backward pass.
type NodeReport struct {
	Name string  `json:"name"`
	Data float64 `json:"data"`
	Grad float64 `json:"grad"`
}

// GradReport is the result of the grad command.
type GradReport struct {
	Expression string       `json:"expression"`
	Processed  int          `json:"processed"`
	Nodes      []NodeReport `json:"nodes"`
}

// NewGradCmd creates the grad command: gradients of (a + b) + c*d.
func NewGradCmd(outputFn func() *Output) *cobra.Command {
	var a, b, c, d float64

	cmd := &cobra.Command{
		Use:   "grad",
		Short: "Differentiate (a + b) + c*d",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			report := Diamond(a, b, c, d)

			headers := []string{"NODE", "DATA", "GRAD"}
			rows := make([][]string, len(report.Nodes))
			for i, n := range report.Nodes {
				rows[i] = []string{n.Name, formatFloat(n.Data), formatFloat(n.Grad)}
			}

			out.Info("%s: %d nodes processed", report.Expression, report.Processed)
			return out.Print(headers, rows, report)
		},
	}

	cmd.Flags().Float64Var(&a, "a", 1, "Value of a")
	cmd.Flags().Float64Var(&b, "b", 2, "Value of b")
	cmd.Flags().Float64Var(&c, "c", 3, "Value of c")
	cmd.Flags().Float64Var(&d, "d", 4, "Value of d")

	return cmd
}

// Diamond builds e = a + b, f = c * d, out = e + f and back-propagates from out.
func Diamond(a, b, c, d float64) GradReport {
	g := autodiff.NewGraph()
	va, vb, vc, vd := g.Leaf(a), g.Leaf(b), g.Leaf(c), g.Leaf(d)
	e := autodiff.Add(va, vb)
	f := autodiff.Mul(vc, vd)
	root := autodiff.Add(e, f)

	processed := autodiff.Backward(root)

	named := []struct {
		name string
		v    autodiff.Value
	}{
		{"a", va}, {"b", vb}, {"c", vc}, {"d", vd},
		{"e=a+b", e}, {"f=c*d", f}, {"out=e+f", root},
	}
	nodes := make([]NodeReport, len(named))
	for i, n := range named {
		nodes[i] = NodeReport{Name: n.name, Data: n.v.Data(), Grad: n.v.Grad()}
	}

	return GradReport{
		Expression: "(a + b) + c*d",
		Processed:  len(processed),
		Nodes:      nodes,
	}
}
