package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guards returning the same value are mergeable:
	//   if a { return err }
	//   if b { return err }
	// => if a || b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	// errors.New(fmt.Sprintf(...)) loses the chance to wrap with %w.
	m.Match(`errors.New(fmt.Sprintf($*args))`).
		Report(`use fmt.Errorf instead of errors.New(fmt.Sprintf(...))`).
		Suggest(`fmt.Errorf($args)`)

	// Handlers must propagate the request context, not start a fresh one.
	m.Match(`$db.QueryRowContext(context.Background(), $*_)`,
		`$db.QueryContext(context.Background(), $*_)`,
		`$db.ExecContext(context.Background(), $*_)`).
		Where(m.File().PkgPath.Matches(`internal/api`)).
		Report(`pass the request context instead of context.Background()`)
}
