// Package normalize maps source-specific quote records onto the canonical
// domain model.
//
// Everything here is a pure function over static tables:
//   - CurrencyTable maps a source icon/category token to an ISO 4217 code
//   - BranchTable maps a source remote branch code to branch metadata
//   - ParsePrice converts thousands-separated integer strings to int64
//
// Unknown tokens and codes are not errors. Callers decide how to log them.
package normalize
