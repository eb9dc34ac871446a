// Package classifier loads a serialized decision-tree model and answers
// predict calls against it. A loaded Classifier is immutable and safe for
// concurrent use.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/doda25-team16/model-service/internal/services/textproc"
)

// Name is the fixed classifier identifier echoed in every response.
const Name = "decision tree"

// FormatVersion is the artifact format this build can read.
const FormatVersion = 1

var ErrModelLoad = errors.New("model load failed")

// Node is one node of the serialized tree. Leaves carry only Label; inner
// nodes split on Feature at Threshold, going left when the feature value is
// less than or equal to the threshold.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Label     string  `json:"leaf,omitempty"`
}

func (n Node) isLeaf() bool {
	return n.Label != ""
}

type modelFile struct {
	FormatVersion int            `json:"format_version"`
	Classifier    string         `json:"classifier"`
	Classes       []string       `json:"classes"`
	Vocabulary    map[string]int `json:"vocabulary"`
	Nodes         []Node         `json:"nodes"`
}

type Classifier struct {
	vocabulary map[string]int
	nodes      []Node
	// index of the message-length feature, one past the last vocabulary slot
	lengthFeature int
}

// Load reads and validates the model artifact at path. Any failure wraps
// ErrModelLoad; callers treat it as fatal.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrModelLoad, path, err)
	}

	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrModelLoad, path, err)
	}

	if mf.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d (want %d)",
			ErrModelLoad, mf.FormatVersion, FormatVersion)
	}
	if len(mf.Nodes) == 0 {
		return nil, fmt.Errorf("%w: model has no tree nodes", ErrModelLoad)
	}

	for tok, idx := range mf.Vocabulary {
		if idx < 0 || idx >= len(mf.Vocabulary) {
			return nil, fmt.Errorf("%w: vocabulary entry %q has index %d out of range",
				ErrModelLoad, tok, idx)
		}
	}

	featureCount := len(mf.Vocabulary) + 1
	for i, n := range mf.Nodes {
		if n.isLeaf() {
			continue
		}
		if n.Feature < 0 || n.Feature >= featureCount {
			return nil, fmt.Errorf("%w: node %d references feature %d out of range",
				ErrModelLoad, i, n.Feature)
		}
		// children must come after their parent, which also rules out cycles
		if n.Left <= i || n.Left >= len(mf.Nodes) || n.Right <= i || n.Right >= len(mf.Nodes) {
			return nil, fmt.Errorf("%w: node %d has invalid child index", ErrModelLoad, i)
		}
	}

	return &Classifier{
		vocabulary:    mf.Vocabulary,
		nodes:         mf.Nodes,
		lengthFeature: len(mf.Vocabulary),
	}, nil
}

// Predict classifies one prepared message and returns its label.
func (c *Classifier) Predict(doc textproc.Document) string {
	features := make([]float64, c.lengthFeature+1)
	for _, tok := range doc.Tokens {
		if idx, ok := c.vocabulary[tok]; ok {
			features[idx]++
		}
	}
	features[c.lengthFeature] = float64(doc.Length)

	node := c.nodes[0]
	for !node.isLeaf() {
		if features[node.Feature] <= node.Threshold {
			node = c.nodes[node.Left]
		} else {
			node = c.nodes[node.Right]
		}
	}

	return node.Label
}
