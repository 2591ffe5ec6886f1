package shared

// Language is one of the source languages the reviewer accepts.
type Language struct {
	Tag         string `json:"tag"`
	DisplayName string `json:"display_name"`
	Template    string `json:"template"`
}

// Languages is the supported set, in the order the editor lists them.
var Languages = []Language{
	{
		Tag:         "javascript",
		DisplayName: "JavaScript",
		Template: `// Write some code here to get ai feedback!
function calculateFibonacci(n) {
  if (n <= 1) return n;
  return calculateFibonacci(n-1) + calculateFibonacci(n-2);
}

console.log(calculateFibonacci(10));`,
	},
	{
		Tag:         "typescript",
		DisplayName: "TypeScript",
		Template: `// Write some code here to get ai feedback!
function calculateFibonacci(n: number): number {
  if (n <= 1) return n;
  return calculateFibonacci(n-1) + calculateFibonacci(n-2);
}

console.log(calculateFibonacci(10));`,
	},
	{
		Tag:         "python",
		DisplayName: "Python",
		Template: `# Write some code here to get ai feedback!
def calculate_fibonacci(n):
    if n <= 1:
        return n
    return calculate_fibonacci(n-1) + calculate_fibonacci(n-2)

print(calculate_fibonacci(10))`,
	},
	{
		Tag:         "java",
		DisplayName: "Java",
		Template: `// Write some code here to get ai feedback!
public class Main {
    public static int calculateFibonacci(int n) {
        if (n <= 1) return n;
        return calculateFibonacci(n-1) + calculateFibonacci(n-2);
    }

    public static void main(String[] args) {
        System.out.println(calculateFibonacci(10));
    }
}`,
	},
	{
		Tag:         "cpp",
		DisplayName: "C++",
		Template: `// Write some code here to get ai feedback!
#include <iostream>

int calculateFibonacci(int n) {
    if (n <= 1) return n;
    return calculateFibonacci(n-1) + calculateFibonacci(n-2);
}

int main() {
    std::cout << calculateFibonacci(10) << std::endl;
    return 0;
}`,
	},
	{
		Tag:         "go",
		DisplayName: "Go",
		Template: `// Write some code here to get ai feedback!
package main

import "fmt"

func calculateFibonacci(n int) int {
    if n <= 1 {
        return n
    }
    return calculateFibonacci(n-1) + calculateFibonacci(n-2)
}

func main() {
    fmt.Println(calculateFibonacci(10))
}`,
	},
	{
		Tag:         "rust",
		DisplayName: "Rust",
		Template: `// Write some code here to get ai feedback!
fn calculate_fibonacci(n: u32) -> u32 {
    if n <= 1 {
        return n;
    }
    calculate_fibonacci(n-1) + calculate_fibonacci(n-2)
}

fn main() {
    println!("{}", calculate_fibonacci(10));
}`,
	},
}

// LookupLanguage finds a supported language by tag.
func LookupLanguage(tag string) (Language, bool) {
	for _, l := range Languages {
		if l.Tag == tag {
			return l, true
		}
	}
	return Language{}, false
}

// IsSupportedLanguage reports whether tag names a supported language.
func IsSupportedLanguage(tag string) bool {
	_, ok := LookupLanguage(tag)
	return ok
}
