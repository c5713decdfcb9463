/*
Package parser reads rulebook markdown into documents and categories.

The expected shape follows the C++ Core Guidelines convention: category
headers are `# <a name="..."></a>KEY: Name`, rules are
`### <a name="anchor"></a>ID: Title`, and `#####` headers open subsections
within a rule. It also composes the canonical embedding input text used
during indexing.
*/
package parser
