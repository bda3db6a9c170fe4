// Package engine turns a raw screen submission into a validated partial case
// update.
//
// The engine is driven by a model.FormDefinition. ExtractActiveFields walks
// the declared fields, follows the branches revealed by the options selected
// in the submission and applies showWhen rules, producing only the values of
// active fields. ValidateActiveFields recomputes the same active set from the
// extracted values and runs each field's validator in declaration order.
// Process combines both and yields either an update or a list of field
// errors, never both.
//
// Which sub-fields are active always follows the new submission, never the
// stored case. The stored case is only consulted by showWhen rules and
// context-aware validators that reference answers from other screens.
//
// The engine has no side effects: it neither logs nor mutates the case, so a
// rejected submission can be replayed without advancing hidden state.
package engine
