package sieve_test

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/hupe1980/sieve"
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/index"
)

type Person struct {
	Name  string
	Age   int
	Color string
}

func exampleSchema() *sieve.Schema[*Person] {
	return sieve.NewSchema[*Person]("Person").
		Column("name", func(p *Person) any { return p.Name }).
		Column("age", func(p *Person) any { return p.Age }).
		Column("color", func(p *Person) any { return p.Color })
}

var examplePeople = []*Person{
	{Name: "Bob", Age: 40, Color: "blue"},
	{Name: "Bob", Age: 10, Color: "red"},
	{Name: "Mary", Age: 40, Color: "white"},
}

// Example demonstrates filtering records with a WHERE clause.
func Example() {
	eng, err := sieve.New("SELECT * FROM Person WHERE age = 40 AND color = 'blue'", exampleSchema())
	if err != nil {
		log.Fatal(err)
	}

	matches, err := eng.Execute(slices.Values(examplePeople))
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range matches {
		fmt.Println(p.Name, p.Age, p.Color)
	}
	// Output: Bob 40 blue
}

// Example_extensions demonstrates calling host functions from a query.
func Example_extensions() {
	isBob := extension.Func1("is_bob", func(p *Person) bool { return p.Name == "Bob" })

	eng, err := sieve.New("SELECT * FROM Person WHERE is_bob() AND age < 20", exampleSchema(),
		sieve.WithExtensions(extension.Funcs{isBob}))
	if err != nil {
		log.Fatal(err)
	}

	matches, err := eng.Execute(slices.Values(examplePeople))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(matches), matches[0].Color)
	// Output: 1 red
}

// Example_indexed demonstrates restricting candidates with an index.
func Example_indexed() {
	set := index.NewSet[*Person]()
	if _, err := set.Define(index.Hash, "color", func(p *Person) any { return p.Color }); err != nil {
		log.Fatal(err)
	}
	if err := set.AddAll(context.Background(), examplePeople); err != nil {
		log.Fatal(err)
	}

	eng, err := sieve.New("SELECT * FROM Person WHERE color IN ('white', 'green')", exampleSchema())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(eng.Restrict(set).Size())
	matches, err := eng.ExecuteIndexed(slices.Values(examplePeople), set)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(matches[0].Name)
	// Output:
	// 1
	// Mary
}
