package program

import (
	"fmt"
	"log/slog"

	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/verifier"
)

// DefaultMaxInstructionDataSize bounds the payload the processor will decode.
// It matches the host's maximum transaction packet size.
const DefaultMaxInstructionDataSize = 1232

// Processor is the program entrypoint. It holds no state between invocations.
type Processor struct {
	verifier *verifier.Verifier
	logger   *slog.Logger
	maxSize  int
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger used to report instruction outcomes.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxInstructionDataSize overrides DefaultMaxInstructionDataSize.
// Non-positive values are ignored.
func WithMaxInstructionDataSize(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.maxSize = n
		}
	}
}

// NewProcessor creates a processor dispatching to v. A nil v verifies against
// mainnet.
func NewProcessor(v *verifier.Verifier, opts ...ProcessorOption) *Processor {
	if v == nil {
		v = verifier.New()
	}
	p := &Processor{
		verifier: v,
		logger:   slog.Default(),
		maxSize:  DefaultMaxInstructionDataSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessInstruction decodes data and executes the instruction it carries.
// It returns nil on success or a *verifier.VerificationError whose Kind is the
// custom error code for the host.
func (p *Processor) ProcessInstruction(data []byte) error {
	if len(data) > p.maxSize {
		err := verifier.WrapError(verifier.KindInvalidInstructionData,
			fmt.Errorf("%w: %d > %d", errPayloadTooLarge, len(data), p.maxSize))
		p.logOutcome("", err)
		return err
	}

	ix, err := DecodeInstruction(data)
	if err != nil {
		p.logger.Warn("Failed to deserialize instruction", slog.Int("size", len(data)))
		return err
	}

	switch ix := ix.(type) {
	case *VerifySignature:
		err = p.verifier.Verify(ix.Request())
		p.logOutcome("VerifySignature", err)
		return err
	default:
		err = verifier.NewError(verifier.KindNotImplemented, "instruction %T", ix)
		p.logOutcome(fmt.Sprintf("%T", ix), err)
		return err
	}
}

// logOutcome records which instruction ran and the error kind, never the
// signature or key material.
func (p *Processor) logOutcome(instruction string, err error) {
	if err == nil {
		p.logger.Info("Signature verified", slog.String("instruction", instruction))
		return
	}
	kind, _ := verifier.KindOf(err)
	p.logger.Warn("Instruction failed",
		slog.String("instruction", instruction),
		slog.String("kind", kind.String()),
		slog.Uint64("code", uint64(kind.Code())),
	)
}
