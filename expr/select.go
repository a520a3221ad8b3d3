package expr

// Select is a parsed "SELECT * FROM <From> WHERE <Where>" statement.
type Select struct {
	From  string
	Alias string
	Where Node
}

// Name returns the alias if set, else the queried type name.
func (s *Select) Name() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.From
}

func (s *Select) String() string {
	where := "NULL"
	if s.Where != nil {
		where = s.Where.String()
	}
	return "SELECT * FROM " + s.Name() + " WHERE " + where + ";"
}
