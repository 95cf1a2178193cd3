// Package rules classifies bank transactions with a declarative rule file.
//
// Rules live in an INI file; every section is one rule. Keys use ':' as the
// delimiter. Each rule supports:
//
//   - 'priority' (mandatory, integer): rules with a lower priority are applied
//     first, but the information they extract may be overridden by rules with a
//     higher priority applied after them.
//   - 'condition' (mandatory, string): a boolean expression over the extracted
//     fields deciding whether the rule applies. The subset of the expression
//     language used by shipped rule files is: ==, !=, <, <=, >, >=, contains,
//     matches (regex), and, or, not and parentheses. Fields that are not set
//     evaluate as nil.
//   - 'type', 'description', 'source', 'destination', 'budget', 'category',
//     'bill', 'notes' (optional, string templates): values assigned on match.
//     Templates may reference any extracted field as '{field}'.
//   - 'tags' (optional, string template): comma-separated tags. Entries are
//     trimmed of surrounding whitespace, so "tag1, t2 , long tag" yields
//     ["tag1", "t2", "long tag"].
//
// When several matching rules set the same key, the last applied rule wins.
// The exception is 'tags', which accumulates across all matching rules in
// application order.
package rules
