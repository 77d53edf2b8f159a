// Package errors provides the structured error type used across rpg-sheet.
//
// Every error carries a Code, a user-facing message, an optional cause and
// free-form metadata. Wrapping keeps the code of the innermost structured
// error, so a NotFound raised by a repository is still a NotFound after the
// character service wraps it with context.
//
// # Basic Usage
//
//	err := errors.InvalidArgumentf("invalid dice notation: %s", notation)
//	err := errors.NotFound("character not found").WithMeta("character_id", id)
//
//	if err := repo.Update(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to persist level up")
//	}
//
// # Checking
//
//	if errors.IsNotFound(err) {
//	    // fall back to an empty roll history
//	}
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", c.Name, vb)
//	errors.ValidateRange("level", c.Level, 1, 20, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer guidelines
//
// Repositories return NotFound/AlreadyExists and wrap storage failures.
// The rules engine only returns InvalidArgument, for malformed dice notation
// and out-of-domain choice input. Boundary no-ops (level 20 going up, spending
// more uses than remain) are not errors; they are reported as a declined
// outcome. The CLI maps codes to exit statuses with Code.ExitCode.
package errors
