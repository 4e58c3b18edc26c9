/*

Package parser turns AskQL source text into a program tree.

The grammar is

  program     := ws* expression ws*
  expression  := string | number | list | object | call
  call        := id ws* ( "(" items ")" )?
  list        := "[" items "]"
  object      := "{" pairs "}"
  items       := ( expression ( "," expression )* ","? )?
  pairs       := ( expression ":" expression ( "," expression ":" expression )* ","? )?

  id          is a run of [_a-zA-Z0-9]
  number      is a run of [0-9.-], kept as written
  string      is quoted with ' or ", and ends at the first matching
              quote not immediately preceded by a backslash; the text
              between the quotes is kept as written, escapes included
  ws          is a space or a newline

An id with no following "(" is a bare identifier. Lists and objects
are reduced as invocations named "list" and "object".

Parsing is generic over askcode.Reducer, so the same grammar can
build program trees (Parse) or any other representation
(ParseWith). A step budget (MaxSteps) bounds the work done on
hostile input.

Errors

Every failure aborts the whole parse. The root of the returned
error is one of ErrEmptyProgram, ErrExpecting, ErrUnknown and
ErrExceedMaxSteps; errors.Data reports "index" and, where it
applies, "char" or "max".

*/
package parser
